package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/store"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Bridge forwards board notifications and store changes into a running
// program. Anything sent before Attach is dropped.
type Bridge struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach starts forwarding to p
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.p = p
	b.mu.Unlock()
}

// send never blocks the caller, which may be the program's own event loop
func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.p
	b.mu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}

// Notify implements board.Notifier
func (b *Bridge) Notify(n board.Notification) {
	b.send(notifyMsg(n))
}

// Changed is registered with board.Subscribe
func (b *Bridge) Changed(e store.Event) {
	b.send(changedMsg(e))
}

type (
	notifyMsg  board.Notification
	changedMsg store.Event
	opDoneMsg  struct{ err error }
)

// run executes a board command off the event loop
func run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: fn(context.Background())}
	}
}
