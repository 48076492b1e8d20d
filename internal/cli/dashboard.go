package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lunarjournal/internal/gateway"
	"github.com/dmitrijs2005/lunarjournal/internal/models"
	"github.com/dmitrijs2005/lunarjournal/internal/store"
)

func (a *App) dispatchDashboard(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		printlnFn("Available commands: (l)ist, refresh, add, delete <id>, whoami, admin, logout, exit")

	case "l", "list":
		a.renderList()

	case "refresh":
		if err := a.store.Load(ctx); err != nil {
			printlnFn("Refresh failed:", err)
			return
		}
		a.renderList()

	case "add":
		_ = a.AddDiscovery(ctx)

	case "delete":
		a.Delete(ctx, args)

	case "whoami":
		a.whoami()

	case "admin":
		printlnFn("Admin panel:", strings.TrimRight(a.config.BackendURL, "/")+"/admin")

	case "logout":
		a.session.Logout(ctx)
		printlnFn("Logged out.")

	default:
		printlnFn("Unknown command:", cmd)
	}
}

// enterDashboard greets the user and loads the list, as happens on every
// transition into the authenticated state.
func (a *App) enterDashboard(ctx context.Context) {
	if u := a.session.User(); u != nil {
		printfFn("Welcome, Sir %s!\n", u.Name)
	}
	if err := a.store.Load(ctx); err != nil {
		printlnFn("Could not load discoveries:", err)
		return
	}
	a.renderList()
}

func (a *App) renderList() {
	items := a.store.Discoveries()
	if len(items) == 0 {
		printlnFn("No discoveries logged yet. The moon awaits your genius.")
		return
	}
	viewer := a.session.User()
	for i := range items {
		printlnFn(formatDiscovery(&items[i], viewer))
	}
}

// AddDiscovery collects a draft interactively and submits it. On failure
// the entered draft is kept and the user may retry the same submission;
// it is only discarded on confirmed success.
func (a *App) AddDiscovery(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Content", os.Stdout)
	if err != nil {
		return err
	}

	category, err := a.getCategory()
	if err != nil {
		return err
	}

	photo, err := a.getPhotoAttachment()
	if err != nil {
		return err
	}

	draft := &models.DiscoveryDraft{
		Title:    title,
		Content:  content,
		Category: category,
		Photo:    photo,
	}

	for {
		err := a.store.Create(ctx, draft)
		if err == nil {
			printlnFn("Discovery recorded.")
			a.renderList()
			return nil
		}

		// The backend persisted the record; only the reload is missing.
		// Resubmitting here would duplicate the discovery.
		if errors.Is(err, store.ErrStaleAfterCreate) {
			printlnFn("Discovery recorded, but the list could not be refreshed:", err)
			printlnFn("Use 'refresh' to reload it.")
			return nil
		}

		switch {
		case errors.Is(err, gateway.ErrValidation):
			printlnFn("The backend rejected the entry:", err)
		case errors.Is(err, gateway.ErrTransport):
			printlnFn("Backend unreachable:", err)
		default:
			printlnFn("Could not record the discovery:", err)
		}

		again, rerr := getSimpleText(a.reader, "Retry with the same entry? (y/n)", os.Stdout)
		if rerr != nil || !strings.EqualFold(again, "y") {
			return err
		}
	}
}

// getCategory constrains input to the fixed category set before anything
// is sent to the backend.
func (a *App) getCategory() (models.Category, error) {
	cats := models.Categories()
	for {
		printlnFn("Category:")
		for i, c := range cats {
			printfFn("  %d) %s\n", i+1, c)
		}
		choice, err := getSimpleText(a.reader, "Select a number or type a name", os.Stdout)
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(cats) {
			return cats[n-1], nil
		}
		if c, parseErr := models.ParseCategory(choice); parseErr == nil {
			return c, nil
		}
		printlnFn("Please pick one of the listed categories.")
	}
}

// getPhotoAttachment asks for an optional photo path. An empty answer
// means no attachment; an unreadable file re-prompts.
func (a *App) getPhotoAttachment() (*models.PhotoAttachment, error) {
	for {
		path, err := getSimpleText(a.reader, "Photo file path (leave empty for none)", os.Stdout)
		if err != nil {
			return nil, err
		}
		if path == "" {
			return nil, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			printlnFn("Could not read the file:", err)
			continue
		}
		return &models.PhotoAttachment{FileName: filepath.Base(path), Data: data}, nil
	}
}

// Delete removes a discovery by id. The local owner check is a courtesy;
// the backend remains the authority and its rejection leaves the list
// unchanged.
func (a *App) Delete(ctx context.Context, args []string) {
	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		id, err = getSimpleText(a.reader, "Enter discovery id to delete", os.Stdout)
		if err != nil {
			return
		}
	}
	if id == "" {
		printlnFn("Usage: delete <id>")
		return
	}

	if d, ok := a.store.Get(id); ok && !d.OwnedBy(a.session.User()) {
		printlnFn("You can only delete your own discoveries.")
		return
	}

	if err := a.store.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gateway.ErrAuthorization):
			printlnFn("The backend rejected the delete: not your discovery.")
		case errors.Is(err, gateway.ErrNotFound):
			printlnFn("No such discovery.")
		default:
			printlnFn("Delete failed:", err)
		}
		return
	}
	printlnFn("Deleted.")
}

func (a *App) whoami() {
	u := a.session.User()
	if u == nil {
		printlnFn("Not logged in.")
		return
	}
	printfFn("%s <%s> (id %s)\n", u.Name, u.Email, u.ID)
}
