package models

import "time"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	ID        string
	Message   string
	Kind      NoticeKind
	CreatedAt time.Time
}
