package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/lunarjournal/internal/gateway"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped
// in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) dispatchLanding(ctx context.Context, cmd string) {
	switch cmd {
	case "help":
		printlnFn("Available commands: login, status, help, exit")

	case "login":
		_ = a.Login(ctx)

	case "status":
		if a.session.Connected() {
			printlnFn("Backend: connected")
		} else {
			printlnFn("Backend: disconnected")
		}

	default:
		printlnFn("Unknown command:", cmd)
	}
}

// Login prompts for credentials and drives the anonymous→authenticated
// transition. Failures leave the session anonymous; the error kind decides
// the message shown on the landing screen.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		switch {
		case errors.Is(err, gateway.ErrAuthentication):
			printlnFn("Invalid email or password.")
		case errors.Is(err, gateway.ErrTransport):
			printlnFn("Backend unreachable. Check the connection and try again.")
		default:
			printlnFn("Login failed:", err)
		}
		return err
	}

	a.enterDashboard(ctx)
	return nil
}
