package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/arch1v/internal/client/models"
)

//go:generate mockgen -source=client.go -destination=../mocks/archive_mock.go -package=mocks

// Archive is the client's view of the arch1v server.
type Archive interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Upload(ctx context.Context, name string, r io.Reader) (*models.UploadOutcome, error)
	List(ctx context.Context) ([]models.FileRecord, error)
	Locate(ctx context.Context, hash string) (*models.LocateResult, error)
	Delete(ctx context.Context, hash string) (*models.DeleteResult, error)
	Clear(ctx context.Context) (*models.ClearResult, error)
}

// SessionSource supplies the bearer token and is reset when the server
// rejects it.
type SessionSource interface {
	Token() string
	Logout(ctx context.Context)
}

// Navigator moves the client to another view.
type Navigator interface {
	Navigate(path string)
}
