package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/arch1v/internal/client/client"
	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/logging"
	"github.com/samber/lo"
)

const (
	msgDeleted      = "File deleted successfully"
	msgCleared      = "All files cleared successfully"
	msgLoadFailed   = "Failed to load files"
	msgDeleteFailed = "Failed to delete file"
	msgClearFailed  = "Failed to clear files"
	msgLocateFailed = "Failed to locate file"
)

var (
	ErrNotMounted          = errors.New("registry view is not mounted")
	ErrConfirmationPending = errors.New("another confirmation is pending")
	ErrNothingToConfirm    = errors.New("nothing to confirm")
	ErrRegistryEmpty       = errors.New("registry is empty")
	ErrEmptyHash           = errors.New("hash is required")
)

// Registry is the dashboard's list of archived files. While mounted it
// reloads whenever the refresh signal fires. Only the newest fetch is
// applied; older ones completing late are dropped.
type Registry struct {
	archive client.Archive
	notices Notifier
	refresh *RefreshSignal
	log     logging.Logger

	mu      sync.Mutex
	files   []models.FileRecord
	loaded  bool
	mounted bool
	// epoch changes on every Mount/Unmount; fetches from an older epoch
	// are discarded.
	epoch   uint64
	issued  uint64
	applied uint64

	pendingDelete string
	pendingClear  bool

	stopWatch context.CancelFunc
}

func NewRegistry(a client.Archive, n Notifier, refresh *RefreshSignal, log logging.Logger) *Registry {
	if log == nil {
		log = logging.Nop()
	}
	return &Registry{archive: a, notices: n, refresh: refresh, log: log.With("component", "registry")}
}

// Mount starts watching the refresh signal and performs the initial fetch.
func (r *Registry) Mount(ctx context.Context) error {
	r.mu.Lock()
	if r.mounted {
		r.mu.Unlock()
		return nil
	}
	r.mounted = true
	r.epoch++

	if r.refresh != nil {
		wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		ch, unsubscribe := r.refresh.Subscribe()
		r.stopWatch = cancel

		go func() {
			defer unsubscribe()
			for {
				select {
				case <-wctx.Done():
					return
				case <-ch:
					_ = r.Load(wctx)
				}
			}
		}()
	}
	r.mu.Unlock()

	return r.Load(ctx)
}

// Unmount stops watching. Fetches still in flight are discarded and any
// pending confirmation is dropped. It does not wait for the watcher, so it
// may be called from a callback running on it.
func (r *Registry) Unmount() {
	r.mu.Lock()
	if !r.mounted {
		r.mu.Unlock()
		return
	}
	r.mounted = false
	r.epoch++
	r.pendingDelete = ""
	r.pendingClear = false
	stop := r.stopWatch
	r.stopWatch = nil
	r.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Load refetches the whole listing.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	if !r.mounted {
		r.mu.Unlock()
		return ErrNotMounted
	}
	r.issued++
	gen, epoch := r.issued, r.epoch
	r.mu.Unlock()

	files, err := r.archive.List(ctx)

	r.mu.Lock()
	if epoch != r.epoch || gen < r.applied {
		r.mu.Unlock()
		r.log.Debug(ctx, "stale listing discarded", "generation", gen)
		return nil
	}
	r.applied = gen
	if err == nil {
		r.files = files
		r.loaded = true
	}
	r.mu.Unlock()

	if err != nil {
		r.log.Warn(ctx, "list files failed", "error", err)
		reportFailure(r.notices, err, msgLoadFailed)
		return fmt.Errorf("list files: %w", err)
	}
	return nil
}

// Files returns a copy of the last applied listing.
func (r *Registry) Files() []models.FileRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.FileRecord(nil), r.files...)
}

// Loaded reports whether at least one listing has been applied.
func (r *Registry) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

func (r *Registry) TotalSize() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.SumBy(r.files, func(f models.FileRecord) int64 { return f.Size })
}

// RequestDelete asks for confirmation before hash is deleted.
func (r *Registry) RequestDelete(hash string) error {
	if hash == "" {
		return ErrEmptyHash
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pendingDelete != "" || r.pendingClear {
		return ErrConfirmationPending
	}
	r.pendingDelete = hash
	return nil
}

// PendingDelete returns the hash awaiting confirmation.
func (r *Registry) PendingDelete() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingDelete, r.pendingDelete != ""
}

func (r *Registry) CancelDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDelete = ""
}

// ConfirmDelete deletes the pending hash and signals a refresh.
func (r *Registry) ConfirmDelete(ctx context.Context) error {
	r.mu.Lock()
	hash := r.pendingDelete
	r.pendingDelete = ""
	r.mu.Unlock()

	if hash == "" {
		return ErrNothingToConfirm
	}

	_, err := r.archive.Delete(ctx, hash)
	if err != nil {
		r.log.Warn(ctx, "delete failed", "hash", hash, "error", err)
		reportFailure(r.notices, err, msgDeleteFailed)
		if !errors.Is(err, client.ErrUnauthorized) {
			r.changed(ctx)
		}
		return fmt.Errorf("delete %s: %w", hash, err)
	}

	r.log.Info(ctx, "file deleted", "hash", hash)
	r.notices.Success(msgDeleted)
	r.changed(ctx)
	return nil
}

// RequestClear asks for confirmation before every file is removed. There
// is nothing to clear in an empty registry.
func (r *Registry) RequestClear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.files) == 0 {
		return ErrRegistryEmpty
	}
	if r.pendingDelete != "" || r.pendingClear {
		return ErrConfirmationPending
	}
	r.pendingClear = true
	return nil
}

func (r *Registry) PendingClear() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingClear
}

func (r *Registry) CancelClear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingClear = false
}

// ConfirmClear removes every file and signals a refresh.
func (r *Registry) ConfirmClear(ctx context.Context) error {
	r.mu.Lock()
	pending := r.pendingClear
	r.pendingClear = false
	r.mu.Unlock()

	if !pending {
		return ErrNothingToConfirm
	}

	res, err := r.archive.Clear(ctx)
	if err != nil {
		r.log.Warn(ctx, "clear failed", "error", err)
		reportFailure(r.notices, err, msgClearFailed)
		if !errors.Is(err, client.ErrUnauthorized) {
			r.changed(ctx)
		}
		return fmt.Errorf("clear: %w", err)
	}

	r.log.Info(ctx, "registry cleared", "removed", res.Removed)
	r.notices.Success(msgCleared)
	r.changed(ctx)
	return nil
}

// changed records a server-side mutation. With a refresh signal the watcher
// refetches; without one the listing is reloaded here. A view unmounted in
// the meantime has nothing to reload.
func (r *Registry) changed(ctx context.Context) {
	if r.refresh != nil {
		r.refresh.Bump()
		return
	}
	if err := r.Load(ctx); err != nil && !errors.Is(err, ErrNotMounted) {
		r.log.Debug(ctx, "reload after mutation failed", "error", err)
	}
}

// Locate returns where the server keeps hash. It changes nothing.
func (r *Registry) Locate(ctx context.Context, hash string) (string, error) {
	if hash == "" {
		return "", ErrEmptyHash
	}

	res, err := r.archive.Locate(ctx, hash)
	if err != nil {
		r.log.Warn(ctx, "locate failed", "hash", hash, "error", err)
		reportFailure(r.notices, err, msgLocateFailed)
		return "", fmt.Errorf("locate %s: %w", hash, err)
	}
	return res.Path, nil
}
