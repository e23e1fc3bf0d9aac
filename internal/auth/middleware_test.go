package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sangkips/customer-data-service/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator(Credentials{Username: "test_user", Password: "test_password"})

	var reached bool
	var seen Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(a)(next)

	t.Run("rejects missing header", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
		assert.Contains(t, w.Header().Values("WWW-Authenticate"), `Basic realm="customers"`)

		var body handlers.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	})

	t.Run("malformed and wrong credentials look the same", func(t *testing.T) {
		for _, header := range []string{"Basic ???", basicHeader("test_user", "wrong"), basicHeader("wrong", "test_password")} {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/customers/", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, reached)
			assert.NotContains(t, w.Body.String(), "password")
			assert.NotContains(t, w.Body.String(), "username")
		}
	})

	t.Run("passes valid credentials through", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/customers/", nil)
		req.Header.Set("Authorization", basicHeader("test_user", "test_password"))
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, reached)
		assert.Equal(t, "test_user", seen.Subject)
	})
}

func TestMiddleware_StoreUnavailable(t *testing.T) {
	a := NewAuthenticator(NewBasicStrategy(failingStore{err: errors.New("down")}))
	h := Middleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/customers/", nil)
	req.Header.Set("Authorization", basicHeader("a", "b"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
