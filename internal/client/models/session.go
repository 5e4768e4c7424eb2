// Package models defines the client-side data model of the archive client.
package models

// Session is the authenticated identity held by the client. Token and
// Username are either both set or both empty.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Valid reports whether both fields are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}

// Credentials are the login/register form inputs.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}
