package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/arch1v/internal/client/navigation"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	View() navigation.View
	Back() bool
	Forward() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	Upload(ctx context.Context, path string) error
	List(ctx context.Context) error
	Locate(ctx context.Context, hash string) error
	Delete(ctx context.Context, hash string) error
	Clear(ctx context.Context) error
}

const (
	helpAuth      = "Available commands: register, login, back, forward, exit"
	helpDashboard = "Available commands: upload <path>, (l)ist, locate [hash], delete <hash>, clear, whoami, logout, back, forward, exit"
)

// runREPL starts a simple read-eval-print loop for the arch1v client.
//
// Prompts and replies go to out, the same writer notices use.
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Which commands are accepted depends on the
// current view: register and login on the auth view, file commands on the
// dashboard. The loop exits on EOF, when ctx is cancelled, or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for ctx.Err() == nil {
		if s := statusFn(); s != "" {
			fmt.Fprintf(out, "arch1v %s> ", s)
		} else {
			fmt.Fprint(out, "arch1v> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], strings.Join(parts[1:], " ")
		dashboard := a.View() == navigation.ViewDashboard

		switch cmd {
		case "help":
			if dashboard {
				fmt.Fprintln(out, helpDashboard)
			} else {
				fmt.Fprintln(out, helpAuth)
			}

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		case "back":
			if !a.Back() {
				fmt.Fprintln(out, "Nothing to go back to")
			}

		case "forward":
			if !a.Forward() {
				fmt.Fprintln(out, "Nothing to go forward to")
			}

		case "register", "login":
			if dashboard {
				fmt.Fprintln(out, "Already signed in; use logout first")
				continue
			}
			if cmd == "register" {
				_ = a.Register(ctx)
			} else {
				_ = a.Login(ctx)
			}

		case "upload", "l", "list", "locate", "delete", "clear", "whoami", "logout":
			if !dashboard {
				fmt.Fprintln(out, "Please login first")
				continue
			}
			dispatchDashboard(ctx, a, cmd, arg, out)

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func dispatchDashboard(ctx context.Context, a execIface, cmd, arg string, out io.Writer) {
	switch cmd {
	case "upload":
		if arg == "" {
			fmt.Fprintln(out, "Usage: upload <path>")
			return
		}
		_ = a.Upload(ctx, arg)
	case "l", "list":
		_ = a.List(ctx)
	case "locate":
		_ = a.Locate(ctx, arg)
	case "delete":
		if arg == "" {
			fmt.Fprintln(out, "Usage: delete <hash>")
			return
		}
		_ = a.Delete(ctx, arg)
	case "clear":
		_ = a.Clear(ctx)
	case "whoami":
		_ = a.Whoami(ctx)
	case "logout":
		_ = a.Logout(ctx)
	}
}
