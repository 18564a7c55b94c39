// Package location negotiates access to the device position.
//
// The flow mirrors what mobile platforms require: the location service must be
// enabled, permission must be granted (requested at most once), and a position
// is fetched a single time per session. Every failure is terminal and reported
// as ErrUnavailable so callers can silently drop location-biased features.
package location

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Permission is the platform's answer to a location permission check.
type Permission int

const (
	PermissionDenied Permission = iota
	PermissionDeniedForever
	PermissionGranted
)

func (p Permission) String() string {
	switch p {
	case PermissionDenied:
		return "denied"
	case PermissionDeniedForever:
		return "denied-forever"
	case PermissionGranted:
		return "granted"
	}
	return "unknown"
}

var (
	ErrUnavailable             = errors.New("location unavailable")
	ErrServiceDisabled         = fmt.Errorf("%w: location service disabled", ErrUnavailable)
	ErrPermissionDenied        = fmt.Errorf("%w: permission denied", ErrUnavailable)
	ErrPermissionDeniedForever = fmt.Errorf("%w: permission permanently denied", ErrUnavailable)
)

// Platform is the device geolocation API the provider drives.
type Platform interface {
	ServiceEnabled(ctx context.Context) (bool, error)
	CheckPermission(ctx context.Context) (Permission, error)
	RequestPermission(ctx context.Context) (Permission, error)
	CurrentPosition(ctx context.Context) (Position, error)
}

// Provider runs the permission flow once and remembers the resulting position.
type Provider struct {
	platform Platform

	once     sync.Once
	mu       sync.RWMutex
	position *Position
	granted  bool
	err      error
}

func NewProvider(platform Platform) *Provider {
	return &Provider{platform: platform}
}

// Start runs the availability flow. Only the first call does any work; later
// calls return the first outcome. onPosition is invoked once a position is
// stored and may be nil.
func (p *Provider) Start(ctx context.Context, onPosition func(Position)) (Position, error) {
	p.once.Do(func() {
		pos, err := p.determine(ctx)

		p.mu.Lock()
		if err == nil {
			p.position = &pos
			p.granted = true
		}
		p.err = err
		p.mu.Unlock()

		if err != nil {
			log.Debug().Err(err).Msg("Location features disabled")
			return
		}

		log.Debug().Str("position", pos.String()).Msg("Acquired device position")
		if onPosition != nil {
			onPosition(pos)
		}
	})

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.err != nil {
		return Position{}, p.err
	}
	return *p.position, nil
}

func (p *Provider) determine(ctx context.Context) (Position, error) {
	enabled, err := p.platform.ServiceEnabled(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrServiceDisabled, err)
	}
	if !enabled {
		return Position{}, ErrServiceDisabled
	}

	permission, err := p.platform.CheckPermission(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	if permission == PermissionDenied {
		permission, err = p.platform.RequestPermission(ctx)
		if err != nil {
			return Position{}, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		if permission == PermissionDenied {
			return Position{}, ErrPermissionDenied
		}
	}

	if permission == PermissionDeniedForever {
		return Position{}, ErrPermissionDeniedForever
	}

	pos, err := p.platform.CurrentPosition(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return pos, nil
}

// Refresh fetches a new position when permission was granted during Start.
// It never asks for permission again.
func (p *Provider) Refresh(ctx context.Context) (Position, error) {
	p.mu.RLock()
	granted, startErr := p.granted, p.err
	p.mu.RUnlock()

	if !granted {
		if startErr != nil {
			return Position{}, startErr
		}
		return Position{}, ErrUnavailable
	}

	pos, err := p.platform.CurrentPosition(ctx)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p.mu.Lock()
	p.position = &pos
	p.mu.Unlock()

	return pos, nil
}

// Position returns the last known position, if any.
func (p *Provider) Position() (Position, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.position == nil {
		return Position{}, false
	}
	return *p.position, true
}
