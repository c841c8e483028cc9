package cnst

const (
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
	HeaderRequestID       = "X-Request-ID"

	BearerScheme = "Bearer"
	TokenType    = "bearer"
)

// gin context keys
const (
	CtxKeyPrincipal = "principal"
	CtxKeyClaims    = "claims"
	CtxKeyRequestID = "request_id"
)

// auth events reported to metrics
const (
	AuthEventRegister = "register"
	AuthEventLogin    = "login"
	AuthEventLogout   = "logout"
)
