package location

import (
	"context"
	"errors"
)

// Static is a Platform backed by fixed coordinates, used on machines that
// have no geolocation hardware. A nil position behaves like a disabled
// location service.
type Static struct {
	position *Position
	denied   bool
}

// NewStatic returns a platform that always reports pos. Pass nil when no
// coordinates are configured.
func NewStatic(pos *Position) *Static {
	return &Static{position: pos}
}

// Deny makes the platform refuse permission permanently, as a user who has
// turned location off in their settings.
func (s *Static) Deny() *Static {
	s.denied = true
	return s
}

func (s *Static) ServiceEnabled(ctx context.Context) (bool, error) {
	return s.position != nil, nil
}

func (s *Static) CheckPermission(ctx context.Context) (Permission, error) {
	if s.denied {
		return PermissionDeniedForever, nil
	}
	return PermissionGranted, nil
}

func (s *Static) RequestPermission(ctx context.Context) (Permission, error) {
	return s.CheckPermission(ctx)
}

func (s *Static) CurrentPosition(ctx context.Context) (Position, error) {
	if s.position == nil {
		return Position{}, errors.New("no coordinates configured")
	}
	if !s.position.Valid() {
		return Position{}, errors.New("configured coordinates are out of range")
	}
	return *s.position, nil
}
