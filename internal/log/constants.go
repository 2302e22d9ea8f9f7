package log

const (
	KeyAppName       = "app"
	KeyRequestID     = "requestId"
	KeyTraceID       = "traceId"
	KeySpanID        = "spanId"
	KeyProcess       = "process"
	KeyTag           = "tag"
	KeyRequest       = "request"
	KeyRequestBody   = "requestBody"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyConfig        = "config"
	KeyCacheKey      = "cacheKey"
	KeySessionID     = "sessionId"
	KeyItemKey       = "itemKey"
	KeyItemsCount    = "itemsCount"
	KeyPatch         = "patch"
	KeyConflicts     = "conflicts"
	KeyLocale        = "locale"
	KeyDrawerAction  = "drawerAction"
	KeyStorageDriver = "storageDriver"
)
