package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inHttp "github.com/Alturino/journey/internal/http"
	"github.com/Alturino/journey/internal/log"
)

func TestSession(t *testing.T) {
	known := uuid.NewString()
	tests := []struct {
		name        string
		header      string
		cookie      string
		expectKnown bool
	}{
		{name: "given session header should reuse it", header: known, expectKnown: true},
		{name: "given session cookie should reuse it", cookie: known, expectKnown: true},
		{name: "given nothing should mint a new session"},
		{name: "given malformed header should mint a new session", header: "not-a-uuid"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var seen string
			handler := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = log.SessionIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/journey", nil)
			if test.header != "" {
				req.Header.Set(inHttp.HeaderSessionID, test.header)
			}
			if test.cookie != "" {
				req.AddCookie(&http.Cookie{Name: inHttp.CookieSessionID, Value: test.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			if test.expectKnown {
				assert.Equal(t, known, seen)
			} else {
				assert.NotEqual(t, known, seen)
			}
			assert.Equal(t, seen, rec.Header().Get(inHttp.HeaderSessionID))
		})
	}
}
