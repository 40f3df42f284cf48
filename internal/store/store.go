// Package store holds the in-memory project and task collections. Every
// mutation is checked against the caller's role, persisted through a gateway,
// and only then (or, for moves, optimistically before) reflected locally.
package store

import (
	"errors"
	"sync"

	"github.com/existflow/planify/internal/permission"
)

// ErrNotFound is returned when an id is not in the local collection
var ErrNotFound = errors.New("not found in local state")

// RoleSource is queried on every mutation for the caller's current role
type RoleSource interface {
	Role() permission.Role
}

// EventKind says which collection changed
type EventKind int

const (
	ProjectsChanged EventKind = iota
	TasksChanged
)

// Event describes one local state change
type Event struct {
	Kind EventKind
	Op   string // load, create, update, delete, move, revert, comment, cascade
	ID   string
}

type observers struct {
	mu  sync.Mutex
	fns []func(Event)
}

func (o *observers) subscribe(fn func(Event)) {
	o.mu.Lock()
	o.fns = append(o.fns, fn)
	o.mu.Unlock()
}

// emit must be called without the store lock held
func (o *observers) emit(e Event) {
	o.mu.Lock()
	fns := make([]func(Event), len(o.fns))
	copy(fns, o.fns)
	o.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func gate(roles RoleSource, a permission.Action) error {
	var role permission.Role
	if roles != nil {
		role = roles.Role()
	}
	return permission.Check(role, a)
}
