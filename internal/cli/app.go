package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/lunarjournal/internal/config"
	"github.com/dmitrijs2005/lunarjournal/internal/gateway"
	"github.com/dmitrijs2005/lunarjournal/internal/logging"
	"github.com/dmitrijs2005/lunarjournal/internal/session"
	"github.com/dmitrijs2005/lunarjournal/internal/store"
)

// printlnFn and printfFn are test seams for user-facing output.
// In tests, replace them with stubs.
var (
	printlnFn = fmt.Println
	printfFn  = fmt.Printf
)

type App struct {
	config  *config.Config
	log     logging.Logger
	gw      gateway.Gateway
	session *session.Controller
	store   *store.Store
	reader  *bufio.Reader
}

// NewApp builds the application around a single process-scoped HTTP
// gateway constructed from the immutable config.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	gw := gateway.NewHTTPGateway(cfg.BackendURL, cfg.AppID, cfg.TokenFile, log)
	return newApp(cfg, log, gw)
}

func newApp(cfg *config.Config, log logging.Logger, gw gateway.Gateway) *App {
	st := store.New(gw, log)
	ctrl := session.NewController(gw, st, log)
	return &App{
		config:  cfg,
		log:     log,
		gw:      gw,
		session: ctrl,
		store:   st,
		reader:  bufio.NewReader(os.Stdin),
	}
}

// Run resolves the session, then blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	printlnFn("Lunar Journal — connecting...")
	a.session.Initialize(ctx)

	if !a.session.Connected() {
		printlnFn("Backend unreachable. You can retry once it is back.")
	}
	if a.session.Screen() == session.ScreenDashboard {
		a.enterDashboard(ctx)
	}

	go a.startConnectivityWatcher(ctx, a.config.OnlineCheckInterval)

	a.repl(ctx)
}

// repl reads one command per line and dispatches it to the command set of
// the current screen. Exits on EOF or "exit"/"quit".
func (a *App) repl(ctx context.Context) {
	printlnFn("Welcome to Lunar Journal CLI (type 'help' for commands)")

	for {
		printfFn("lunar %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if a.session.Screen() == session.ScreenDashboard {
			a.dispatchDashboard(ctx, cmd, args)
		} else {
			a.dispatchLanding(ctx, cmd)
		}
	}
}

// status renders the prompt suffix: the session's email (when logged in)
// and the connectivity indicator.
func (a *App) status() string {
	s := ""
	if u := a.session.User(); u != nil {
		s = u.Email + " "
	}
	if a.session.Connected() {
		s += "online"
	} else {
		s += "offline"
	}
	return "(" + s + ")"
}

// startConnectivityWatcher keeps the prompt's online/offline indicator
// current by probing the backend on a fixed interval.
func (a *App) startConnectivityWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			ok, _ := a.gw.CheckHealth(probeCtx)
			cancel()
			a.session.SetConnected(ok)

		case <-ctx.Done():
			return
		}
	}
}
