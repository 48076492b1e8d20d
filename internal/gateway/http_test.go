package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lunarjournal/internal/logging"
	"github.com/dmitrijs2005/lunarjournal/internal/models"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestGateway(t *testing.T, handler http.Handler) (*HTTPGateway, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokenFile := filepath.Join(t.TempDir(), "token")
	return NewHTTPGateway(srv.URL, "lunar-test", tokenFile, discardLogger()), tokenFile
}

func writeJSON(t *testing.T, w http.ResponseWriter, code int, v any) {
	t.Helper()
	w.WriteHeader(code)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestCheckHealth_OK(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	ok, err := g.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	g := NewHTTPGateway(srv.URL, "lunar-test", filepath.Join(t.TempDir(), "token"), discardLogger())

	ok, err := g.CheckHealth(context.Background())
	assert.False(t, ok)
	assert.Error(t, err, "the error carries the cause but callers may ignore it")
}

func TestCheckHealth_BadStatus(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	ok, err := g.CheckHealth(context.Background())
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestRequestHeaders(t *testing.T) {
	var gotAppID, gotReqID string
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAppID = r.Header.Get("X-App-Id")
		gotReqID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))

	_, err := g.CheckHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "lunar-test", gotAppID)
	_, parseErr := uuid.Parse(gotReqID)
	assert.NoError(t, parseErr, "every request carries a generated request id")
}

func TestLogin_StoresAndPersistsToken(t *testing.T) {
	var authHeader string
	g, tokenFile := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "a@x.com", creds["email"])
			assert.Equal(t, "secret", creds["password"])
			writeJSON(t, w, http.StatusOK, map[string]string{"token": "tok123"})
		case "/api/auth/me":
			authHeader = r.Header.Get("Authorization")
			writeJSON(t, w, http.StatusOK, models.User{ID: "u1", Name: "Isaac", Email: "a@x.com"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	require.NoError(t, g.Login(context.Background(), "a@x.com", "secret"))

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok123", string(data))

	user, err := g.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", authHeader)
	assert.Equal(t, "u1", user.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
	}))

	err := g.Login(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogin_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	g := NewHTTPGateway(srv.URL, "lunar-test", filepath.Join(t.TempDir(), "token"), discardLogger())

	err := g.Login(context.Background(), "a@x.com", "secret")
	require.ErrorIs(t, err, ErrTransport)
}

func TestCurrentUser_NoToken(t *testing.T) {
	calls := 0
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := g.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, calls, "no round trip without a token")
}

func TestCurrentUser_ExpiredTokenShortCircuits(t *testing.T) {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	t.Cleanup(srv.Close)

	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte(signed), 0o600))
	g := NewHTTPGateway(srv.URL, "lunar-test", tokenFile, discardLogger())

	_, err = g.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Zero(t, calls)

	_, statErr := os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(statErr), "expired token file is removed")
}

func TestCurrentUser_BackendRejectsToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("stale-opaque-token"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token revoked"})
	}))
	t.Cleanup(srv.Close)
	g := NewHTTPGateway(srv.URL, "lunar-test", tokenFile, discardLogger())

	_, err := g.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrNoSession)

	_, statErr := os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestListDiscoveries_QueryAndDecoding(t *testing.T) {
	list := []models.Discovery{
		{ID: "d2", Title: "Second", Category: models.CategoryAstronomy, Owner: models.User{ID: "u1"}},
		{ID: "d1", Title: "First", Category: models.CategoryPhysics, Owner: models.User{ID: "u2"}},
	}
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/discoveries", r.URL.Path)
		assert.Equal(t, "owner", r.URL.Query().Get("include"))
		assert.Equal(t, "-discoveryDate", r.URL.Query().Get("sort"))
		writeJSON(t, w, http.StatusOK, map[string]any{"data": list})
	}))

	got, err := g.ListDiscoveries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d2", got[0].ID, "server ordering is preserved as-is")
	assert.Equal(t, "u2", got[1].Owner.ID)
}

func TestCreateDiscovery_OmitsPhotoPartWhenAbsent(t *testing.T) {
	date := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "T", r.FormValue("title"))
		assert.Equal(t, "C", r.FormValue("content"))
		assert.Equal(t, "Physics", r.FormValue("category"))
		assert.Equal(t, date.Format(time.RFC3339), r.FormValue("discoveryDate"))
		assert.Empty(t, r.MultipartForm.File, "no file part may be sent without an attachment")
		writeJSON(t, w, http.StatusCreated, models.Discovery{ID: "d9", Title: "T", Owner: models.User{ID: "u1"}})
	}))

	draft := &models.DiscoveryDraft{Title: "T", Content: "C", Category: models.CategoryPhysics, DiscoveryDate: date}
	created, err := g.CreateDiscovery(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "d9", created.ID)
	assert.Equal(t, "u1", created.Owner.ID)
}

func TestCreateDiscovery_WithPhoto(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile(photoFieldName)
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "crater.jpg", header.Filename)
		assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
		writeJSON(t, w, http.StatusCreated, models.Discovery{ID: "d10"})
	}))

	draft := &models.DiscoveryDraft{
		Title:         "T",
		Category:      models.CategoryGeology,
		DiscoveryDate: time.Now(),
		Photo:         &models.PhotoAttachment{FileName: "crater.jpg", Data: []byte{0xff, 0xd8, 0xff}},
	}
	_, err := g.CreateDiscovery(context.Background(), draft)
	require.NoError(t, err)
}

func TestCreateDiscovery_ClientSideValidation(t *testing.T) {
	calls := 0
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := g.CreateDiscovery(context.Background(), &models.DiscoveryDraft{Category: models.CategoryPhysics})
	require.ErrorIs(t, err, ErrValidation)

	_, err = g.CreateDiscovery(context.Background(), &models.DiscoveryDraft{Title: "T", Category: "Alchemy"})
	require.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, calls, "invalid drafts never reach the backend")
}

func TestCreateDiscovery_BackendValidation(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]string{"message": "title too long"})
	}))

	draft := &models.DiscoveryDraft{Title: "T", Category: models.CategoryPhysics, DiscoveryDate: time.Now()}
	_, err := g.CreateDiscovery(context.Background(), draft)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "title too long")
}

func TestDeleteDiscovery_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "forbidden for non-owner", status: http.StatusForbidden, wantErr: ErrAuthorization},
		{name: "missing record", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "server failure", status: http.StatusInternalServerError, wantErr: ErrTransport},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/api/discoveries/d1", r.URL.Path)
				writeJSON(t, w, tt.status, map[string]string{"message": "nope"})
			}))

			err := g.DeleteDiscovery(context.Background(), "d1")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteDiscovery_OK(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, g.DeleteDiscovery(context.Background(), "d1"))
}

func TestLogout_Idempotent(t *testing.T) {
	calls := 0
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	require.NoError(t, g.Logout(context.Background()))
	assert.Zero(t, calls, "logout without a session makes no request")
}

func TestLogout_ClearsLocalStateDespiteRemoteFailure(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("tok123"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	g := NewHTTPGateway(srv.URL, "lunar-test", tokenFile, discardLogger())

	require.NoError(t, g.Logout(context.Background()))

	_, statErr := os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(statErr), "token file removed regardless of the remote result")
	_, err := g.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
}
