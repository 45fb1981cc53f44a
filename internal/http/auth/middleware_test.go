package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/adpulse/internal/http/auth"
)

func TestMiddleware(t *testing.T) {
	secret := []byte("test-secret")

	valid, err := auth.NewToken(secret, "dashboard", time.Hour)
	require.NoError(t, err)

	expired, err := auth.NewToken(secret, "dashboard", -time.Hour)
	require.NoError(t, err)

	foreign, err := auth.NewToken([]byte("other-secret"), "dashboard", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"Valid", "Bearer " + valid, http.StatusOK},
		{"Missing", "", http.StatusUnauthorized},
		{"NotBearer", "Basic abc", http.StatusUnauthorized},
		{"Expired", "Bearer " + expired, http.StatusUnauthorized},
		{"WrongSecret", "Bearer " + foreign, http.StatusUnauthorized},
		{"Garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject string

			h := auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject = auth.Subject(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "dashboard", subject)
			}
		})
	}
}
