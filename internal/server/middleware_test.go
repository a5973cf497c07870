package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/fitlog/internal/auth"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tokenAuthenticator validates tokens with a JWTService and a MemoryRevoker.
type tokenAuthenticator struct {
	jwt     *auth.JWTService
	revoker *auth.MemoryRevoker
}

func (a *tokenAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return nil, &auth.ErrUnauthorized{Reason: err.Error()}
	}
	if revoked, _ := a.revoker.IsRevoked(ctx, claims.ID); revoked {
		return nil, &auth.ErrUnauthorized{Reason: "token has been revoked"}
	}
	return claims, nil
}

func newTokenAuthenticator() *tokenAuthenticator {
	return &tokenAuthenticator{
		jwt:     auth.NewJWTService("test-secret", time.Hour),
		revoker: auth.NewMemoryRevoker(),
	}
}

// TestJWTAuthSetsUserID verifies that a valid bearer token reaches the handler
// with the user ID in context.
func TestJWTAuthSetsUserID(t *testing.T) {
	a := newTokenAuthenticator()
	token, err := a.jwt.GenerateToken(42)
	if err != nil {
		t.Fatal(err)
	}

	var gotUserID int64
	handler := JWTAuth(a, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 42 {
		t.Errorf("userID = %d, want 42", gotUserID)
	}
}

// TestJWTAuthRejects verifies missing, malformed and revoked tokens get a JSON 401
// without reaching the handler.
func TestJWTAuthRejects(t *testing.T) {
	a := newTokenAuthenticator()
	revoked, _ := a.jwt.GenerateToken(7)
	claims, _ := a.jwt.ValidateToken(revoked)
	a.revoker.Revoke(context.Background(), claims.ID, claims.ExpiresAtTime())

	handler := JWTAuth(a, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"revoked", "Bearer " + revoked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

// TestUserIDFromContextMissing verifies no user ID is reported without JWTAuth.
func TestUserIDFromContextMissing(t *testing.T) {
	if id, ok := UserIDFromContext(context.Background()); ok {
		t.Errorf("UserIDFromContext(empty) = %d, true; want false", id)
	}
}

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	handler := RequestLogging(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies allowed origins are echoed and others get no CORS headers.
func TestCORSHeaders(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("CORS origin = %q, want %q", got, "http://localhost:5173")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("CORS origin for disallowed origin = %q, want empty", got)
	}
}

// TestCORSWildcard verifies "*" allows any origin.
func TestCORSWildcard(t *testing.T) {
	handler := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("CORS origin = %q, want %q", got, "https://app.example.com")
	}
}

// TestCORSPreflight verifies that OPTIONS requests get 204 with CORS headers.
func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
		t.Errorf("allow headers = %q", got)
	}
}
