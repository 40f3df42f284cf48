// Package session resolves who is using the workspace and which role they hold.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/permission"
)

// Session is the signed-in identity. The role comes from the profile record
// and is never raised locally.
type Session struct {
	mu      sync.RWMutex
	profile model.Profile
	role    permission.Role
}

// Load fetches the profile through the gateway
func Load(ctx context.Context, profiles gateway.ProfileGateway) (*Session, error) {
	p, err := profiles.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return FromProfile(p)
}

// FromProfile builds a session from an already fetched profile
func FromProfile(p model.Profile) (*Session, error) {
	role, err := permission.ParseRole(p.Role)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.UserID, err)
	}
	return &Session{profile: p, role: role}, nil
}

// Refresh re-reads the profile so a role change on the server takes effect
func (s *Session) Refresh(ctx context.Context, profiles gateway.ProfileGateway) error {
	fresh, err := Load(ctx, profiles)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.profile, s.role = fresh.profile, fresh.role
	s.mu.Unlock()
	return nil
}

// Role returns the current role
func (s *Session) Role() permission.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Capabilities returns the capability set of the current role
func (s *Session) Capabilities() permission.Capabilities {
	return permission.For(s.Role())
}

// Profile returns the identity record
func (s *Session) Profile() model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// DisplayName is used as the author label on comments
func (s *Session) DisplayName() string {
	p := s.Profile()
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return "Anonymous"
}

// Static is a fixed role, for tests and tools
type Static permission.Role

// Role returns the fixed role
func (s Static) Role() permission.Role {
	return permission.Role(s)
}
