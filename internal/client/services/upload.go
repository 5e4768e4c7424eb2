package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/arch1v/internal/client/client"
	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/logging"
)

const (
	msgDuplicate    = "Duplicate file detected"
	msgUploaded     = "File uploaded successfully"
	msgUploadFailed = "Upload failed"
)

var (
	ErrNoFile = errors.New("no file selected")
	ErrBusy   = errors.New("upload already in progress")
	ErrClosed = errors.New("workflow closed")
)

type UploadState int

const (
	UploadIdle UploadState = iota
	UploadBusy
)

func (s UploadState) String() string {
	if s == UploadBusy {
		return "busy"
	}
	return "idle"
}

// UploadWorkflow submits one file at a time and keeps the last outcome.
type UploadWorkflow struct {
	archive client.Archive
	notices Notifier
	refresh *RefreshSignal
	log     logging.Logger

	mu      sync.Mutex
	state   UploadState
	outcome *models.UploadOutcome
	closed  bool
}

func NewUploadWorkflow(a client.Archive, n Notifier, refresh *RefreshSignal, log logging.Logger) *UploadWorkflow {
	if log == nil {
		log = logging.Nop()
	}
	return &UploadWorkflow{archive: a, notices: n, refresh: refresh, log: log.With("component", "upload")}
}

// Submit uploads the first of files. Only one submission may be in flight;
// a second one fails with ErrBusy without contacting the server.
func (w *UploadWorkflow) Submit(ctx context.Context, files ...models.UploadFile) (*models.UploadOutcome, error) {
	if len(files) == 0 {
		return nil, ErrNoFile
	}
	f := files[0]

	w.mu.Lock()
	switch {
	case w.closed:
		w.mu.Unlock()
		return nil, ErrClosed
	case w.state == UploadBusy:
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.state = UploadBusy
	w.outcome = nil
	w.mu.Unlock()

	w.log.Debug(ctx, "upload started", "filename", f.Name)
	out, err := w.archive.Upload(ctx, f.Name, f.Reader)

	w.mu.Lock()
	w.state = UploadIdle
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if err == nil {
		w.outcome = out
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Warn(ctx, "upload failed", "filename", f.Name, "error", err)
		reportFailure(w.notices, err, msgUploadFailed)
		return nil, fmt.Errorf("upload %s: %w", f.Name, err)
	}

	w.log.Info(ctx, "upload finished", "filename", f.Name, "hash", out.Hash, "duplicate", out.Duplicate)
	if out.Duplicate {
		w.notices.Success(msgDuplicate)
	} else {
		w.notices.Success(msgUploaded)
	}
	if w.refresh != nil {
		w.refresh.Bump()
	}
	return out, nil
}

func (w *UploadWorkflow) State() UploadState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Outcome returns the result of the last successful submission.
func (w *UploadWorkflow) Outcome() (models.UploadOutcome, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outcome == nil {
		return models.UploadOutcome{}, false
	}
	return *w.outcome, true
}

// LocateTarget returns the hash of the original when the last upload was a
// duplicate.
func (w *UploadWorkflow) LocateTarget() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outcome == nil || !w.outcome.Duplicate {
		return "", false
	}
	return w.outcome.Hash, true
}

// Close detaches the workflow. Uploads finishing afterwards change nothing.
func (w *UploadWorkflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.outcome = nil
}
