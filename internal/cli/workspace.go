package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/gateway/memory"
	"github.com/existflow/planify/internal/gateway/remote"
	"github.com/existflow/planify/internal/gateway/sqlstore"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/session"
	"github.com/existflow/planify/internal/store"
)

// workspace is everything a command needs: the board, who is using it and
// the persisted view state
type workspace struct {
	board   *board.Board
	session *session.Session
	prefs   *config.Prefs
	close   func() error
}

// printNotifier echoes board notifications. Errors are left to cobra, which
// prints the returned error.
type printNotifier struct{}

func (printNotifier) Notify(n board.Notification) {
	switch n.Kind {
	case board.KindSuccess:
		fmt.Printf("✓ %s\n", n.Message)
	case board.KindInfo:
		fmt.Printf("ℹ %s\n", n.Message)
	case board.KindWarning:
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", n.Message)
	}
}

// openGateway connects to the configured backend
func openGateway(ctx context.Context) (gateway.Gateway, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendRemote:
		client, err := remote.NewClient()
		if err != nil {
			return nil, nil, err
		}
		if !client.IsLoggedIn() {
			return nil, nil, fmt.Errorf("not logged in, run 'planify auth login' first")
		}
		return client, noop, nil

	case config.BackendMemory:
		gw := memory.New(model.Profile{UserID: sqlstore.LocalUserID, Name: "local", Role: "admin"})
		return gw, noop, nil

	default:
		db, err := sqlstore.Open(sqlstore.DriverSQLite, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.EnsureLocalUser(ctx, "admin"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to prepare local user: %w", err)
		}
		return db.Gateway(sqlstore.LocalUserID), db.Close, nil
	}
}

// openWorkspace connects, resolves the session and loads every project and task
func openWorkspace(ctx context.Context, notifier board.Notifier) (*workspace, error) {
	gw, closeFn, err := openGateway(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := session.Load(ctx, gw)
	if err != nil {
		closeFn()
		return nil, err
	}

	prefs := loadPrefs()
	if notifier == nil {
		notifier = printNotifier{}
	}
	b := board.New(gw, sess, notifier, logger.Default())
	if err := b.LoadAll(ctx); err != nil {
		closeFn()
		return nil, err
	}

	logger.Debug("Workspace opened",
		logger.F("backend", cfg.Backend),
		logger.F("user", sess.DisplayName()),
		logger.F("role", sess.Role()))

	return &workspace{board: b, session: sess, prefs: prefs, close: closeFn}, nil
}

// loadPrefs never fails; a broken prefs file is replaced by defaults
func loadPrefs() *config.Prefs {
	prefs, err := config.LoadPrefs()
	if err != nil {
		logger.Warn("Failed to load preferences, using defaults", logger.F("error", err))
	}
	return prefs
}

// findTask resolves a full id or a unique id prefix
func (w *workspace) findTask(ref string) (model.Task, error) {
	var matches []model.Task
	for _, t := range w.board.Tasks(store.TaskFilter{}) {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("task not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// findProject resolves an id, a unique id prefix or an exact name
func (w *workspace) findProject(ref string) (model.Project, error) {
	var matches []model.Project
	for _, p := range w.board.Projects() {
		if p.ID == ref {
			return p, nil
		}
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return model.Project{}, fmt.Errorf("project not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Project{}, fmt.Errorf("project %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// currentProject returns the project set with 'planify context set'
func (w *workspace) currentProject() (model.Project, bool) {
	if w.prefs == nil {
		return model.Project{}, false
	}
	_, _, last := w.prefs.Snapshot()
	if last == "" {
		return model.Project{}, false
	}
	for _, p := range w.board.Projects() {
		if p.ID == last {
			return p, true
		}
	}
	return model.Project{}, false
}

// parseDue accepts "today", "tomorrow", "+Nd" or YYYY-MM-DD
func parseDue(s string, now time.Time) (time.Time, error) {
	today := model.Today(now)
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "today":
		return today, nil
	case v == "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case strings.HasPrefix(v, "+") && strings.HasSuffix(v, "d"):
		var n int
		if _, err := fmt.Sscanf(v, "+%dd", &n); err != nil {
			return time.Time{}, fmt.Errorf("bad due date %q", s)
		}
		return today.AddDate(0, 0, n), nil
	default:
		return gateway.ParseDate(v)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}
