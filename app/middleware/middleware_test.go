package appMiddleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signed(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func protected() http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return Authenticate(testSecret, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := GetUserIDFromContext(r.Context())
		w.Write([]byte(id))
	}))
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tok := signed(t, testSecret, Claims{
		UserID:           "6f1c1a5e-2a7b-4a59-9e0a-0b7d3c1f9a11",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	protected().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "6f1c1a5e-2a7b-4a59-9e0a-0b7d3c1f9a11", rec.Body.String())
}

func TestAuthenticate_Rejects(t *testing.T) {
	expired := signed(t, testSecret, Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})
	wrongKey := signed(t, []byte("other"), Claims{UserID: "u1"})
	noUser := signed(t, testSecret, Claims{})

	for name, header := range map[string]string{
		"missing header": "",
		"bad scheme":     "Basic abc",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + wrongKey,
		"no user id":     "Bearer " + noUser,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			protected().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
