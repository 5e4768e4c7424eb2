package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/arch1v/internal/client/client"
	"github.com/dmitrijs2005/arch1v/internal/client/config"
	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/client/navigation"
	"github.com/dmitrijs2005/arch1v/internal/client/notice"
	"github.com/dmitrijs2005/arch1v/internal/client/services"
	"github.com/dmitrijs2005/arch1v/internal/client/session"
	"github.com/dmitrijs2005/arch1v/internal/logging"
)

type App struct {
	log     logging.Logger
	storage *client.Storage

	session  *session.Store
	router   *navigation.Router
	notices  *notice.Board
	auth     *services.AuthService
	refresh  *services.RefreshSignal
	registry *services.Registry
	archive  client.Archive

	// runCtx is the context of Run; view callbacks mount the registry with it.
	runCtx context.Context

	mu     sync.Mutex
	upload *services.UploadWorkflow

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	cancelSubs []func()
}

// NewApp opens local storage, restores a persisted session and connects the
// gateway to the configured server.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	storage, err := client.OpenStorage(ctx, cfg.StorageBackend, cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(storage.Metadata, log)
	if err := store.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}

	router := navigation.NewRouter(store, navigation.PathApp)

	archive, err := client.NewHTTPClient(client.HTTPOptions{
		BaseURL: cfg.ServerBaseURL,
		Session: store,
		Nav:     router,
		Logger:  log,
	})
	if err != nil {
		router.Close()
		_ = storage.Close()
		return nil, err
	}

	a := newApp(log, store, router, notice.NewBoard(cfg.NoticeTTL), archive, os.Stdin, os.Stdout)
	a.storage = storage
	return a, nil
}

func newApp(log logging.Logger, store *session.Store, router *navigation.Router, board *notice.Board, archive client.Archive, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	refresh := services.NewRefreshSignal()

	a := &App{
		log:      log,
		session:  store,
		router:   router,
		notices:  board,
		archive:  archive,
		refresh:  refresh,
		auth:     services.NewAuthService(archive, store, router, board, log),
		registry: services.NewRegistry(archive, board, refresh, log),
		runCtx:   context.Background(),
		reader:   bufio.NewReader(in),
		out:      &lockedWriter{w: out},
		now:      time.Now,
	}

	a.cancelSubs = append(a.cancelSubs,
		board.Subscribe(a.showNotice),
		router.Subscribe(a.onView),
	)
	return a
}

// Run shows the banner and blocks in the command loop until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.runCtx = ctx
	defer a.Close()

	fmt.Fprintln(a.out, headerStyle.Render("arch1v")+" content-addressed archive (type 'help' for commands)")
	a.onView(a.router.View())

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

// Close releases the dashboard, subscriptions and local storage.
func (a *App) Close() {
	for _, cancel := range a.cancelSubs {
		cancel()
	}
	a.cancelSubs = nil
	a.leaveDashboard()
	a.router.Close()

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.log.Error(a.runCtx, "close storage", "error", err)
		}
		a.storage = nil
	}
}

func (a *App) View() navigation.View {
	return a.router.View()
}

func (a *App) Back() bool    { return a.router.Back() }
func (a *App) Forward() bool { return a.router.Forward() }

func (a *App) status() string {
	if a.View() != navigation.ViewDashboard {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.Username())
}

func (a *App) onView(v navigation.View) {
	if v == navigation.ViewDashboard {
		a.enterDashboard()
		return
	}
	a.leaveDashboard()
}

func (a *App) enterDashboard() {
	a.mu.Lock()
	if a.upload != nil {
		a.mu.Unlock()
		return
	}
	a.upload = services.NewUploadWorkflow(a.archive, a.notices, a.refresh, a.log)
	a.mu.Unlock()

	_ = a.registry.Mount(a.runCtx)
}

func (a *App) leaveDashboard() {
	a.mu.Lock()
	w := a.upload
	a.upload = nil
	a.mu.Unlock()

	if w == nil {
		return
	}
	w.Close()
	a.registry.Unmount()
}

func (a *App) uploadWorkflow() *services.UploadWorkflow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.upload
}

func (a *App) showNotice(n *models.Notice) {
	if n == nil {
		return
	}
	fmt.Fprintln(a.out, renderNotice(*n))
}

// lockedWriter serializes writes from the command loop and from background
// notices.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
