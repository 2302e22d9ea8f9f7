package http

const (
	HeaderContentType   = "Content-Type"
	HeaderValueJson     = "application/json"
	HeaderRequestID     = "X-Request-Id"
	HeaderSessionID     = "X-Journey-Session"
	HeaderAcceptLang    = "Accept-Language"
	CookieSessionID     = "journey_session"
	CookieSessionMaxAge = 60 * 60 * 24 * 30
	MaxRequestBody      = 64 << 10
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
