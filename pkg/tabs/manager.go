// Package tabs keeps the route tabs opened during a session.
package tabs

import (
	"errors"
	"slices"
	"sync"

	"github.com/khonager/Trans/pkg/route"
)

var ErrUnknownTab = errors.New("unknown tab")

// Resetter clears the search pickers once a route has been opened.
type Resetter interface {
	Reset()
}

// Manager owns the ordered tab list and the active tab pointer. An empty
// active id means the search view is shown.
type Manager struct {
	search Resetter

	mu     sync.RWMutex
	tabs   []route.Tab
	active string
}

// NewManager returns an empty manager. search may be nil.
func NewManager(search Resetter) *Manager {
	return &Manager{search: search}
}

// Add appends tab, makes it active and resets the search so a new one can
// start right away.
func (m *Manager) Add(tab route.Tab) {
	m.mu.Lock()
	m.tabs = append(m.tabs, tab)
	m.active = tab.ID
	m.mu.Unlock()

	if m.search != nil {
		m.search.Reset()
	}
}

// Close removes the tab with id. Closing the active tab activates the last
// remaining tab, or none.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return ErrUnknownTab
	}
	m.tabs = slices.Delete(m.tabs, i, i+1)

	if m.active == id {
		m.active = ""
		if len(m.tabs) > 0 {
			m.active = m.tabs[len(m.tabs)-1].ID
		}
	}
	return nil
}

// Select makes id the active tab.
func (m *Manager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(id) < 0 {
		return ErrUnknownTab
	}
	m.active = id
	return nil
}

// DeselectAll returns to the search view.
func (m *Manager) DeselectAll() {
	m.mu.Lock()
	m.active = ""
	m.mu.Unlock()
}

// Active returns the active tab, if any.
func (m *Manager) Active() (route.Tab, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexLocked(m.active)
	if i < 0 {
		return route.Tab{}, false
	}
	return m.tabs[i], true
}

// ActiveID is "" when no tab is active.
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Get returns the tab with id.
func (m *Manager) Get(id string) (route.Tab, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexLocked(id)
	if i < 0 {
		return route.Tab{}, false
	}
	return m.tabs[i], true
}

// Tabs returns the tabs in the order they were opened.
func (m *Manager) Tabs() []route.Tab {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.tabs)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tabs)
}

func (m *Manager) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(m.tabs, func(t route.Tab) bool { return t.ID == id })
}
