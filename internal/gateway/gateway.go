// Package gateway wraps all network I/O against the Lunar Journal backend.
// Nothing else in the client is allowed to talk to the network; controllers
// depend on the Gateway interface and receive errors from the sentinel
// taxonomy in errors.go.
package gateway

import (
	"context"

	"github.com/dmitrijs2005/lunarjournal/internal/models"
)

// Gateway is the backend contract consumed by the session controller and
// the discovery store. All methods honor context cancellation.
type Gateway interface {
	// CheckHealth probes backend reachability. The boolean is always
	// usable; the error only carries a description of why the probe
	// failed and may be ignored by callers.
	CheckHealth(ctx context.Context) (bool, error)

	// Login establishes a server-side session for the given credentials.
	Login(ctx context.Context, email, password string) error

	// Logout invalidates the session. Idempotent: calling it with no
	// active session is not an error.
	Logout(ctx context.Context) error

	// CurrentUser resolves the authenticated user for the active session,
	// or ErrNoSession when there is none.
	CurrentUser(ctx context.Context) (*models.User, error)

	// ListDiscoveries returns every discovery visible to the session with
	// the owner relation expanded, sorted by discovery date descending.
	ListDiscoveries(ctx context.Context) ([]models.Discovery, error)

	// CreateDiscovery submits a draft, with the optional photo transmitted
	// alongside the structured fields in a single multipart request.
	CreateDiscovery(ctx context.Context, draft *models.DiscoveryDraft) (*models.Discovery, error)

	// DeleteDiscovery removes a record by id.
	DeleteDiscovery(ctx context.Context, id string) error
}
