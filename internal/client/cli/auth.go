package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/arch1v/internal/client/session"
	"github.com/dmitrijs2005/arch1v/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

// Register prompts for a username and password and creates the account.
// The user stays on the auth view and signs in separately.
func (a *App) Register(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.auth.Register(ctx, username, string(password))
}

// Login prompts for credentials and opens the dashboard on success.
func (a *App) Login(ctx context.Context) error {
	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, username, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", a.session.Username())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Whoami prints the signed-in user and, when the token carries one, its
// expiry.
func (a *App) Whoami(_ context.Context) error {
	cur := a.session.Current()
	fmt.Fprintf(a.out, "User: %s\n", cur.Username)

	if exp, ok := session.Expiry(cur.Token); ok {
		left := exp.Sub(a.now()).Round(time.Second)
		if left > 0 {
			fmt.Fprintf(a.out, "Session expires %s (in %s)\n", exp.Local().Format(time.RFC1123), left)
		} else {
			fmt.Fprintf(a.out, "Session expired %s\n", exp.Local().Format(time.RFC1123))
		}
	}
	return nil
}
