package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/journey/internal/errors"
	inHttp "github.com/Alturino/journey/internal/http"
	"github.com/Alturino/journey/internal/log"
	"github.com/Alturino/journey/internal/otel"
)

var redactedFields = []string{"name", "email", "phone", "notes"}

// Logging attaches a request id and a request-scoped logger to the context.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(inHttp.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c, span := otel.Tracer.Start(
			r.Context(),
			"middleware Logging",
			trace.WithAttributes(
				attribute.String(log.KeyRequestID, requestID),
				attribute.String(log.KeyRequestHost, r.Host),
				attribute.String(log.KeyRequestIp, r.RemoteAddr),
				attribute.String(log.KeyRequestMethod, r.Method),
				attribute.String(log.KeyRequestURI, r.RequestURI),
			),
		)
		defer span.End()

		requestBody := map[string]interface{}{}
		if r.Body != nil {
			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, inHttp.MaxRequestBody))
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				err = fmt.Errorf("failed reading request body with error=%w", err)
				inErrors.HandleError(err, span)
				zerolog.Ctx(c).Warn().Err(err).Str(log.KeyRequestID, requestID).Msg(err.Error())
				inHttp.WriteFailedResponse(c, w, http.StatusRequestEntityTooLarge, err)
				return
			}
			_ = json.Unmarshal(raw, &requestBody)
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}
		for _, field := range redactedFields {
			if requestBody[field] != nil {
				requestBody[field] = "****"
			}
		}

		lg := zerolog.Ctx(r.Context()).With().
			Str(log.KeyRequestID, requestID).
			Dict(log.KeyRequest, zerolog.Dict().
				Str(log.KeyRequestHost, r.Host).
				Str(log.KeyRequestIp, r.RemoteAddr).
				Str(log.KeyRequestMethod, r.Method).
				Str(log.KeyRequestURI, r.RequestURI).
				Any(log.KeyRequestBody, requestBody)).
			Str(log.KeyTag, "middleware Logging").
			Logger()

		lg.Trace().Msg("attaching request value to context")
		c = log.AttachRequestIDToContext(c, requestID)
		c = lg.WithContext(c)
		r = r.WithContext(c)
		w.Header().Set(inHttp.HeaderRequestID, requestID)
		lg.Debug().Msg("attached request value to context")

		next.ServeHTTP(w, r)
	})
}
