package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/arch1v/internal/client/client"
	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/client/navigation"
	"github.com/dmitrijs2005/arch1v/internal/client/notice"
	"github.com/dmitrijs2005/arch1v/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/arch1v/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeServer is a minimal in-memory archive server keyed by file name.
type fakeServer struct {
	mu      sync.Mutex
	files   []models.FileRecord
	token   string
	expired bool
	deletes []string
	cleared bool
}

func (s *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(w http.ResponseWriter, r *http.Request) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.expired || r.Header.Get("Authorization") != "Bearer "+s.token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return false
		}
		return true
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var c struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": s.token, "username": c.Username})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User registered"})
	})
	mux.HandleFunc("GET /api/files/all", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.files)
	})
	mux.HandleFunc("POST /api/files/upload", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad upload", http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(f)
		hash := "h-" + string(body)

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, rec := range s.files {
			if rec.Hash == hash {
				writeJSON(w, http.StatusOK, models.UploadOutcome{Duplicate: true, Hash: hash, ExistingPath: rec.Path})
				return
			}
		}
		rec := models.FileRecord{Filename: hdr.Filename, Hash: hash, Path: "/store/" + hdr.Filename, Size: int64(len(body))}
		s.files = append(s.files, rec)
		writeJSON(w, http.StatusOK, models.UploadOutcome{Hash: hash, SavedPath: rec.Path, Filename: rec.Filename, Size: rec.Size})
	})
	mux.HandleFunc("GET /api/files/locate/{hash}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		hash := r.PathValue("hash")
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, rec := range s.files {
			if rec.Hash == hash {
				writeJSON(w, http.StatusOK, models.LocateResult{Hash: hash, Path: rec.Path})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "File not found"})
	})
	mux.HandleFunc("DELETE /api/files/delete/{hash}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		hash := r.PathValue("hash")
		s.mu.Lock()
		defer s.mu.Unlock()
		s.deletes = append(s.deletes, hash)
		kept := s.files[:0]
		for _, rec := range s.files {
			if rec.Hash != hash {
				kept = append(kept, rec)
			}
		}
		s.files = kept
		writeJSON(w, http.StatusOK, models.DeleteResult{Deleted: true, Hash: hash})
	})
	mux.HandleFunc("DELETE /api/files/clear", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		n := len(s.files)
		s.files = nil
		s.cleared = true
		writeJSON(w, http.StatusOK, models.ClearResult{Removed: int64(n)})
	})
	return mux
}

type testApp struct {
	*App
	store  *session.Store
	server *fakeServer
	out    *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	store := session.NewStore(metadata.NewSQLiteRepository(db), nil)
	router := navigation.NewRouter(store, navigation.PathApp)

	fs := &fakeServer{token: "tok-1"}
	srv := httptest.NewServer(fs.handler(t))
	t.Cleanup(srv.Close)

	archive, err := client.NewHTTPClient(client.HTTPOptions{BaseURL: srv.URL, Session: store, Nav: router})
	require.NoError(t, err)

	var out bytes.Buffer
	a := newApp(nil, store, router, notice.NewBoard(time.Hour), archive, strings.NewReader(input), &out)
	t.Cleanup(a.Close)

	return &testApp{App: a, store: store, server: fs, out: &out}
}

func (ta *testApp) output() string {
	lw := ta.App.out.(*lockedWriter)
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return ta.out.String()
}

func (ta *testApp) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, ta.store.Login(context.Background(), ta.server.token, "alice"))
	ta.router.Navigate(navigation.PathApp)
	require.Equal(t, navigation.ViewDashboard, ta.View())
}

func stubCredentials(t *testing.T, username, password string) {
	t.Helper()
	oldText, oldPw := getSimpleText, getPassword
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		return username, nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { getSimpleText, getPassword = oldText, oldPw })
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestApp_StartsOnAuthViewWithoutSession(t *testing.T) {
	ta := newTestApp(t, "")
	assert.Equal(t, navigation.ViewAuth, ta.View())
	assert.Equal(t, "", ta.status())
}

func TestApp_LoginOpensDashboard(t *testing.T) {
	ta := newTestApp(t, "")
	stubCredentials(t, "  alice  ", "secret")

	require.NoError(t, ta.Login(context.Background()))

	assert.Equal(t, navigation.ViewDashboard, ta.View())
	assert.Equal(t, "alice", ta.store.Username())
	assert.Equal(t, "(alice)", ta.status())
	assert.Contains(t, ta.output(), "Signed in as alice")
	assert.NotNil(t, ta.uploadWorkflow())
}

func TestApp_LoginRejectedStaysOnAuth(t *testing.T) {
	ta := newTestApp(t, "")
	stubCredentials(t, "alice", "wrong")

	require.Error(t, ta.Login(context.Background()))

	assert.Equal(t, navigation.ViewAuth, ta.View())
	assert.False(t, ta.store.IsAuthenticated())
	assert.Contains(t, ta.output(), "Unauthorized")
}

func TestApp_LoginValidation(t *testing.T) {
	ta := newTestApp(t, "")
	stubCredentials(t, "alice", "abc")

	require.Error(t, ta.Login(context.Background()))
	assert.Contains(t, ta.output(), "Password must be at least 4 characters")
}

func TestApp_Register(t *testing.T) {
	ta := newTestApp(t, "")
	stubCredentials(t, "bob", "secret")

	require.NoError(t, ta.Register(context.Background()))

	assert.Equal(t, navigation.ViewAuth, ta.View())
	assert.Contains(t, ta.output(), "Registration successful! Please sign in.")
}

func TestApp_UploadThenDuplicateThenLocate(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)
	ctx := context.Background()

	p := writeTemp(t, "a.txt", "hello")
	require.NoError(t, ta.Upload(ctx, p))
	assert.Contains(t, ta.output(), "Upload Successful")
	assert.Contains(t, ta.output(), "/store/a.txt")

	dup := writeTemp(t, "copy.txt", "hello")
	require.NoError(t, ta.Upload(ctx, dup))
	assert.Contains(t, ta.output(), "Duplicate File Found")
	assert.Contains(t, ta.output(), "Duplicate file detected")

	require.NoError(t, ta.Locate(ctx, ""))
	assert.Contains(t, ta.output(), "File Location")

	require.NoError(t, ta.List(ctx))
	assert.Contains(t, ta.output(), "Files (1)")
	assert.Contains(t, ta.output(), "a.txt")
}

func TestApp_UploadMissingFile(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)

	require.Error(t, ta.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.txt")))
	assert.Contains(t, ta.output(), "Cannot open")
}

func TestApp_LocateWithoutTarget(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)

	require.Error(t, ta.Locate(context.Background(), ""))
	assert.Contains(t, ta.output(), "Usage: locate <hash>")
}

func TestApp_LocateUnknownHash(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)

	require.Error(t, ta.Locate(context.Background(), "missing"))
	assert.Contains(t, ta.output(), "File not found")
}

func TestApp_DeleteConfirmed(t *testing.T) {
	ta := newTestApp(t, "y\n")
	ta.signIn(t)
	ctx := context.Background()
	require.NoError(t, ta.Upload(ctx, writeTemp(t, "a.txt", "hello")))

	require.NoError(t, ta.Delete(ctx, "h-hello"))

	assert.Equal(t, []string{"h-hello"}, ta.server.deletes)
	assert.Contains(t, ta.output(), "File deleted successfully")
	assert.Eventually(t, func() bool { return len(ta.registry.Files()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestApp_DeleteCancelled(t *testing.T) {
	ta := newTestApp(t, "n\n")
	ta.signIn(t)

	require.NoError(t, ta.Delete(context.Background(), "h-hello"))

	assert.Empty(t, ta.server.deletes)
	assert.Contains(t, ta.output(), "Cancelled")
	_, pending := ta.registry.PendingDelete()
	assert.False(t, pending)
}

func TestApp_ClearEmptyRegistry(t *testing.T) {
	ta := newTestApp(t, "y\n")
	ta.signIn(t)

	require.Error(t, ta.Clear(context.Background()))

	assert.False(t, ta.server.cleared)
	assert.Contains(t, ta.output(), "No files uploaded yet")
}

func TestApp_ClearConfirmed(t *testing.T) {
	ta := newTestApp(t, "yes\n")
	ta.signIn(t)
	ctx := context.Background()
	require.NoError(t, ta.Upload(ctx, writeTemp(t, "a.txt", "hello")))
	require.NoError(t, ta.List(ctx))

	require.NoError(t, ta.Clear(ctx))

	assert.True(t, ta.server.cleared)
	assert.Contains(t, ta.output(), "All files cleared successfully")
}

func TestApp_ExpiredSessionReturnsToAuth(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)

	ta.server.mu.Lock()
	ta.server.expired = true
	ta.server.mu.Unlock()

	_ = ta.List(context.Background())

	assert.NotContains(t, ta.output(), "Files (")
	assert.Equal(t, navigation.ViewAuth, ta.View())
	assert.False(t, ta.store.IsAuthenticated())
	assert.Nil(t, ta.uploadWorkflow())
}

func TestApp_Logout(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)

	require.NoError(t, ta.Logout(context.Background()))

	assert.Equal(t, navigation.ViewAuth, ta.View())
	assert.Contains(t, ta.output(), "Signed out")
	assert.Nil(t, ta.uploadWorkflow())
}

func TestApp_Whoami(t *testing.T) {
	ta := newTestApp(t, "")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ta.now = func() time.Time { return now }

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(2 * time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	ta.server.token = tok
	ta.signIn(t)

	require.NoError(t, ta.Whoami(context.Background()))

	assert.Contains(t, ta.output(), "User: alice")
	assert.Contains(t, ta.output(), "(in 2h0m0s)")
}

func TestApp_RunWritesPromptsToSharedOutput(t *testing.T) {
	ta := newTestApp(t, "help\nexit\n")

	require.NoError(t, ta.Run(context.Background()))

	out := ta.output()
	assert.Contains(t, out, "arch1v> ")
	assert.Contains(t, out, helpAuth)
	assert.Contains(t, out, "Bye!")
}
