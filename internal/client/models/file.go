package models

import (
	"io"

	"github.com/dmitrijs2005/arch1v/internal/timex"
)

// FileRecord is one archived file as listed by the server. Hash identifies
// the content; records are never mutated, only created and deleted.
type FileRecord struct {
	ID        int64           `json:"id,omitempty"`
	Filename  string          `json:"filename"`
	Hash      string          `json:"hash"`
	Path      string          `json:"path,omitempty"`
	Size      int64           `json:"size"`
	MimeType  string          `json:"mimeType"`
	CreatedAt timex.Timestamp `json:"createdAt"`
}

// UploadFile is a file selected for submission.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadOutcome is the server's verdict on one upload. When Duplicate is
// true the content already existed under Hash and nothing new was stored.
type UploadOutcome struct {
	Duplicate    bool   `json:"duplicate"`
	Message      string `json:"message,omitempty"`
	Hash         string `json:"hash"`
	ExistingPath string `json:"existingPath,omitempty"`
	SavedPath    string `json:"savedPath,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Size         int64  `json:"size"`
}

// LocateResult is the storage path of a hash at the time of the request.
type LocateResult struct {
	Hash string `json:"hash"`
	Path string `json:"path"`
}

type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	Hash    string `json:"hash"`
}

type ClearResult struct {
	Removed int64 `json:"removed"`
}
