package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/arch1v/internal/client/client"
	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/client/navigation"
	"github.com/dmitrijs2005/arch1v/internal/common"
	"github.com/dmitrijs2005/arch1v/internal/logging"
	"github.com/go-playground/validator/v10"
)

const (
	msgCredentialsRequired = "Username and password are required"
	msgPasswordTooShort    = "Password must be at least 4 characters"
	msgRegistered          = "Registration successful! Please sign in."
)

var validate = validator.New()

// ValidationError is input rejected before any request is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == common.ErrValidation }

// SessionWriter is the part of the session store the auth flow changes.
type SessionWriter interface {
	Login(ctx context.Context, token, username string) error
	Logout(ctx context.Context)
}

// AuthService drives the login and register forms.
type AuthService struct {
	archive client.Archive
	session SessionWriter
	nav     client.Navigator
	notices Notifier
	log     logging.Logger
}

func NewAuthService(a client.Archive, s SessionWriter, nav client.Navigator, n Notifier, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthService{archive: a, session: s, nav: nav, notices: n, log: log.With("component", "auth")}
}

// ValidateCredentials trims the username and checks both fields.
func ValidateCredentials(username, password string) (models.Credentials, error) {
	c := models.Credentials{Username: strings.TrimSpace(username), Password: password}

	err := validate.Struct(c)
	if err == nil {
		return c, nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return c, &ValidationError{Msg: msgCredentialsRequired}
			}
		}
		return c, &ValidationError{Msg: msgPasswordTooShort}
	}
	return c, err
}

// Login signs in, stores the session and opens the dashboard.
func (a *AuthService) Login(ctx context.Context, username, password string) error {
	c, err := ValidateCredentials(username, password)
	if err != nil {
		a.notices.Error(err.Error())
		return err
	}

	s, err := a.archive.Login(ctx, c.Username, c.Password)
	if err != nil {
		a.log.Warn(ctx, "login failed", "username", c.Username, "error", err)
		a.notices.Error(client.Message(err))
		return fmt.Errorf("login: %w", err)
	}

	if err := a.session.Login(ctx, s.Token, s.Username); err != nil {
		a.notices.Error("Could not save session")
		return fmt.Errorf("save session: %w", err)
	}

	a.nav.Navigate(navigation.PathApp)
	return nil
}

// Register creates the account. The user stays on the auth view and signs
// in separately.
func (a *AuthService) Register(ctx context.Context, username, password string) error {
	c, err := ValidateCredentials(username, password)
	if err != nil {
		a.notices.Error(err.Error())
		return err
	}

	if _, err := a.archive.Register(ctx, c.Username, c.Password); err != nil {
		a.log.Warn(ctx, "register failed", "username", c.Username, "error", err)
		a.notices.Error(client.Message(err))
		return fmt.Errorf("register: %w", err)
	}

	a.notices.Success(msgRegistered)
	return nil
}

func (a *AuthService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.nav.Navigate(navigation.PathAuth)
}
