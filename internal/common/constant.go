// Package common contains constants and sentinel errors shared by the
// archive client packages.
package common

const (
	// AuthorizationHeader carries the session token on outbound requests.
	AuthorizationHeader = "Authorization"
	// BearerScheme prefixes the token in AuthorizationHeader.
	BearerScheme = "Bearer"

	// TokenStorageKey and UsernameStorageKey are the two durable keys that
	// make up a persisted session.
	TokenStorageKey    = "arch1v_token"
	UsernameStorageKey = "arch1v_user"
)
