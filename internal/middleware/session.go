package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/journey/internal/http"
	"github.com/Alturino/journey/internal/log"
)

// Session resolves the browser session that owns a journey. The header wins
// over the cookie; a fresh id is minted and handed back as a cookie when
// neither is present or the value is not a uuid.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).With().Str(log.KeyTag, "middleware Session").Logger()

		sessionID := r.Header.Get(inHttp.HeaderSessionID)
		if sessionID == "" {
			if cookie, err := r.Cookie(inHttp.CookieSessionID); err == nil {
				sessionID = cookie.Value
			}
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			if sessionID != "" {
				logger.Debug().Str(log.KeySessionID, sessionID).Msg("discarding malformed session id")
			}
			sessionID = uuid.NewString()
			logger.Debug().Str(log.KeySessionID, sessionID).Msg("minted session id")
		}

		http.SetCookie(w, &http.Cookie{
			Name:     inHttp.CookieSessionID,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   inHttp.CookieSessionMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set(inHttp.HeaderSessionID, sessionID)

		logger = logger.With().Str(log.KeySessionID, sessionID).Logger()
		c := log.AttachSessionIDToContext(r.Context(), sessionID)
		c = logger.WithContext(c)
		next.ServeHTTP(w, r.WithContext(c))
	})
}
