package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/lunarjournal/internal/logging"
	"github.com/dmitrijs2005/lunarjournal/internal/models"
)

const photoFieldName = "lunarPhoto"

// HTTPGateway talks JSON (and multipart for creation) to the backend REST
// API. The bearer token returned by login is kept in memory and mirrored
// to a token file so a later process start can restore the session.
type HTTPGateway struct {
	baseURL   string
	appID     string
	tokenFile string
	http      *http.Client
	log       logging.Logger

	mu    sync.Mutex
	token string
}

// NewHTTPGateway constructs a gateway bound to the given backend. A token
// persisted by a previous run is picked up here; whether it is still valid
// is decided by CurrentUser.
func NewHTTPGateway(baseURL, appID, tokenFile string, log logging.Logger) *HTTPGateway {
	g := &HTTPGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		appID:     appID,
		tokenFile: tokenFile,
		http:      &http.Client{},
		log:       log,
	}
	if data, err := os.ReadFile(tokenFile); err == nil {
		g.token = strings.TrimSpace(string(data))
	}
	return g
}

func (g *HTTPGateway) currentToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

func (g *HTTPGateway) setToken(ctx context.Context, token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()

	if err := os.WriteFile(g.tokenFile, []byte(token), 0o600); err != nil {
		// The session still works in-memory; only restoration after a
		// restart is lost.
		g.log.Warn(ctx, "could not persist session token", "file", g.tokenFile, "error", err)
	}
}

func (g *HTTPGateway) clearToken(ctx context.Context) {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()

	if err := os.Remove(g.tokenFile); err != nil && !os.IsNotExist(err) {
		g.log.Warn(ctx, "could not remove session token file", "file", g.tokenFile, "error", err)
	}
}

func (g *HTTPGateway) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-App-Id", g.appID)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if tok := g.currentToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (g *HTTPGateway) do(req *http.Request) (*http.Response, error) {
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}

// CheckHealth probes GET /api/health. It never fails past this boundary:
// the boolean is always meaningful and the error only describes the cause
// of an unreachable backend.
func (g *HTTPGateway) CheckHealth(ctx context.Context) (bool, error) {
	req, err := g.newRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return false, err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("health check: unexpected status %s", resp.Status)
	}
	return true, nil
}

// Login exchanges credentials for a bearer token and persists it.
func (g *HTTPGateway) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := g.newRequest(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthentication, errorMessage(body))
	default:
		return mapStatus(resp.StatusCode, body)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%w: decoding login response: %v", ErrTransport, err)
	}
	if result.Token == "" {
		return fmt.Errorf("%w: login response carried no token", ErrTransport)
	}

	g.setToken(ctx, result.Token)
	return nil
}

// Logout invalidates the session on the backend best-effort and always
// discards the local token. It never returns an error.
func (g *HTTPGateway) Logout(ctx context.Context) error {
	defer g.clearToken(ctx)

	if g.currentToken() == "" {
		return nil
	}

	req, err := g.newRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return nil
	}
	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
		return nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// CurrentUser resolves the user behind the persisted token. A missing or
// expired token short-circuits to ErrNoSession without a round trip.
func (g *HTTPGateway) CurrentUser(ctx context.Context) (*models.User, error) {
	tok := g.currentToken()
	if tok == "" {
		return nil, ErrNoSession
	}
	if tokenExpired(tok) {
		g.clearToken(ctx)
		return nil, fmt.Errorf("%w: session token expired", ErrNoSession)
	}

	req, err := g.newRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		g.clearToken(ctx)
		return nil, fmt.Errorf("%w: %s", ErrNoSession, errorMessage(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapStatus(resp.StatusCode, body)
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%w: decoding user: %v", ErrTransport, err)
	}
	return &user, nil
}

// ListDiscoveries fetches the full list with the owner relation expanded.
// Ordering (discoveryDate descending) is established by the query, not by
// the client.
func (g *HTTPGateway) ListDiscoveries(ctx context.Context) ([]models.Discovery, error) {
	req, err := g.newRequest(ctx, http.MethodGet, "/api/discoveries?include=owner&sort=-discoveryDate", nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, mapStatus(resp.StatusCode, body)
	}

	var result struct {
		Data []models.Discovery `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding discovery list: %v", ErrTransport, err)
	}
	return result.Data, nil
}

// CreateDiscovery submits the draft as one multipart request. The photo
// part is omitted entirely when the draft carries no attachment.
func (g *HTTPGateway) CreateDiscovery(ctx context.Context, draft *models.DiscoveryDraft) (*models.Discovery, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":         draft.Title,
		"content":       draft.Content,
		"category":      string(draft.Category),
		"discoveryDate": draft.DiscoveryDate.UTC().Format(time.RFC3339),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if draft.Photo != nil {
		part, err := mw.CreateFormFile(photoFieldName, draft.Photo.FileName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(draft.Photo.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := g.newRequest(ctx, http.MethodPost, "/api/discoveries", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, mapStatus(resp.StatusCode, body)
	}

	var created models.Discovery
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("%w: decoding created discovery: %v", ErrTransport, err)
	}
	return &created, nil
}

// DeleteDiscovery removes a record by id. Ownership is enforced by the
// backend; a non-owner attempt surfaces as ErrAuthorization.
func (g *HTTPGateway) DeleteDiscovery(ctx context.Context, id string) error {
	req, err := g.newRequest(ctx, http.MethodDelete, "/api/discoveries/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := g.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return mapStatus(resp.StatusCode, body)
	}
}

// mapStatus translates backend status codes into the sentinel taxonomy.
// Login handles 401 itself; everywhere else 401 means the session is gone.
func mapStatus(code int, body []byte) error {
	msg := errorMessage(body)
	switch code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrNoSession, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthorization, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	default:
		return fmt.Errorf("%w: unexpected status %d: %s", ErrTransport, code, msg)
	}
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}

// tokenExpired inspects the registered claims of a JWT without verifying
// its signature. Opaque tokens, or tokens without an expiry claim, are
// left for the backend to judge.
func tokenExpired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
