package board

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/permission"
)

// Kind is the severity of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// DefaultDuration is how long a notification stays on screen
const DefaultDuration = 4 * time.Second

// Notification is a transient message for the user
type Notification struct {
	Kind     Kind
	Message  string
	Duration time.Duration
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discard struct{}

func (discard) Notify(Notification) {}

// Inbox is a Notifier that keeps everything it receives
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

func (in *Inbox) Notify(n Notification) {
	in.mu.Lock()
	in.items = append(in.items, n)
	in.mu.Unlock()
}

// Drain returns and clears the received notifications
func (in *Inbox) Drain() []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	items := in.items
	in.items = nil
	return items
}

// Last returns the most recent notification
func (in *Inbox) Last() (Notification, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.items) == 0 {
		return Notification{}, false
	}
	return in.items[len(in.items)-1], true
}

// failureMessage turns err into user-facing text
func failureMessage(err error, fallback string) string {
	var denied *permission.DeniedError
	if errors.As(err, &denied) {
		return fmt.Sprintf("You do not have permission to %s", denied.Action)
	}
	var invalid *model.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	return fallback
}
