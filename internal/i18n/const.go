package i18n

// Common errors
var (
	ErrBadRequest       = NewErrorWithCode("ErrorBadRequest", ErrorBadRequest)
	ErrMalformedRequest = NewErrorWithCode("ErrorMalformedRequest", ErrorBadRequest)
	ErrValidationFailed = NewErrorWithCode("ErrorValidationFailed", ErrorBadRequest)
	ErrRouteNotFound    = NewErrorWithCode("ErrorRouteNotFound", ErrorNotFound)
	ErrRateLimited      = NewErrorWithCode("ErrorRateLimited", ErrorTooManyRequests)
	ErrInternalServer   = NewErrorWithCode("ErrorInternalServer", ErrorInternalServer)
)

// Authentication and user related errors
var (
	ErrNotAuthenticated   = NewErrorWithCode("ErrorNotAuthenticated", ErrorUnauthorized)
	ErrInvalidCredentials = NewErrorWithCode("ErrorInvalidCredentials", ErrorUnauthorized)
	ErrInactiveUser       = NewErrorWithCode("ErrorInactiveUser", ErrorForbidden)
	ErrUserRoleRequired   = NewErrorWithCode("ErrorUserRoleRequired", ErrorForbidden)
	ErrAdminRequired      = NewErrorWithCode("ErrorAdminRequired", ErrorForbidden)
	ErrUsernameExists     = NewErrorWithCode("ErrorUsernameExists", ErrorConflict)
	ErrEmailExists        = NewErrorWithCode("ErrorEmailExists", ErrorConflict)
	ErrUserNotFound       = NewErrorWithCode("ErrorUserNotFound", ErrorNotFound)
	ErrInvalidRole        = NewErrorWithCode("ErrorInvalidRole", ErrorBadRequest)
	ErrCannotDeleteSelf   = NewErrorWithCode("ErrorCannotDeleteSelf", ErrorBadRequest)
)

// Catalog and ledger errors
var (
	ErrPerfumeNotFound    = NewErrorWithCode("ErrorPerfumeNotFound", ErrorNotFound)
	ErrPerfumeForbidden   = NewErrorWithCode("ErrorPerfumeForbidden", ErrorForbidden)
	ErrPurchaseNotFound   = NewErrorWithCode("ErrorPurchaseNotFound", ErrorNotFound)
	ErrPurchaseForbidden  = NewErrorWithCode("ErrorPurchaseForbidden", ErrorForbidden)
	ErrInvalidSortField   = NewErrorWithCode("ErrorInvalidSortField", ErrorBadRequest)
	ErrInvalidSortOrder   = NewErrorWithCode("ErrorInvalidSortOrder", ErrorBadRequest)
	ErrInvalidRange       = NewErrorWithCode("ErrorInvalidRange", ErrorBadRequest)
	ErrInvalidOffset      = NewErrorWithCode("ErrorInvalidOffset", ErrorBadRequest)
	ErrInvalidDateRange   = NewErrorWithCode("ErrorInvalidDateRange", ErrorBadRequest)
	ErrInvalidPriceRange  = NewErrorWithCode("ErrorInvalidPriceRange", ErrorBadRequest)
	ErrNegativePrice      = NewErrorWithCode("ErrorNegativePrice", ErrorBadRequest)
)

// Success messages
const (
	SuccessServiceRunning = "SuccessServiceRunning"
)
