package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/arch1v/internal/client/models"
)

// ---- fake notifier ----

type fakeNotifier struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (f *fakeNotifier) Success(msg string) models.Notice {
	return f.add(msg, models.NoticeSuccess)
}

func (f *fakeNotifier) Error(msg string) models.Notice {
	return f.add(msg, models.NoticeError)
}

func (f *fakeNotifier) add(msg string, kind models.NoticeKind) models.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := models.Notice{Message: msg, Kind: kind, CreatedAt: time.Now()}
	f.notices = append(f.notices, n)
	return n
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.notices))
	for _, n := range f.notices {
		out = append(out, string(n.Kind)+": "+n.Message)
	}
	return out
}

// ---- fake session ----

type fakeSession struct {
	loginErr error

	token, username string
	logouts         int
}

func (f *fakeSession) Login(_ context.Context, token, username string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token, f.username = token, username
	return nil
}

func (f *fakeSession) Logout(context.Context) {
	f.token, f.username = "", ""
	f.logouts++
}
