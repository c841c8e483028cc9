package i18n

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents an HTTP status code
type ErrorCode int

// Standard HTTP status codes
const (
	ErrorBadRequest      ErrorCode = http.StatusBadRequest
	ErrorUnauthorized    ErrorCode = http.StatusUnauthorized
	ErrorForbidden       ErrorCode = http.StatusForbidden
	ErrorNotFound        ErrorCode = http.StatusNotFound
	ErrorConflict        ErrorCode = http.StatusConflict
	ErrorTooManyRequests ErrorCode = http.StatusTooManyRequests
	ErrorInternalServer  ErrorCode = http.StatusInternalServerError
)

// I18nError represents an internationalized error
type I18nError struct {
	// MessageID is the key used for translation lookup
	MessageID string
	// Data holds template parameters for the message
	Data map[string]any
}

// New creates a new I18nError with the given message ID
func New(messageID string) *I18nError {
	return &I18nError{MessageID: messageID}
}

// Error renders the message in the default language
func (e *I18nError) Error() string {
	if t := GetTranslator(); t != nil {
		if translated := t.Translate(e.MessageID, defaultLang, e.Data); translated != e.MessageID {
			return translated
		}
	}
	if len(e.Data) == 0 {
		return e.MessageID
	}
	msg := e.MessageID
	for k, v := range e.Data {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{{.%s}}", k), fmt.Sprintf("%v", v))
	}
	return msg
}

// Translate renders the message for lang, falling back to the default language
func (e *I18nError) Translate(lang string) string {
	if t := GetTranslator(); t != nil {
		if translated := t.Translate(e.MessageID, lang, e.Data); translated != e.MessageID {
			return translated
		}
	}
	return e.Error()
}

// ErrorWithCode is an error carrying the HTTP status it maps to
type ErrorWithCode struct {
	*I18nError
	Code ErrorCode
}

// NewErrorWithCode creates a new error with a code
func NewErrorWithCode(messageID string, code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{I18nError: New(messageID), Code: code}
}

// WithParam returns a copy of e with an extra template parameter.
// The receiver is left untouched so package-level errors can be shared.
func (e *ErrorWithCode) WithParam(key string, value any) *ErrorWithCode {
	data := make(map[string]any, len(e.Data)+1)
	maps.Copy(data, e.Data)
	data[key] = value
	return &ErrorWithCode{
		I18nError: &I18nError{MessageID: e.MessageID, Data: data},
		Code:      e.Code,
	}
}

// GetCode returns the error code
func (e *ErrorWithCode) GetCode() ErrorCode {
	return e.Code
}

// Is reports whether target carries the same message id and code, so
// errors.Is keeps working on copies made by WithParam.
func (e *ErrorWithCode) Is(target error) bool {
	var other *ErrorWithCode
	if !errors.As(target, &other) {
		return false
	}
	return other.MessageID == e.MessageID && other.Code == e.Code
}

// AsErrorWithCode extracts an ErrorWithCode from err's chain
func AsErrorWithCode(err error) (*ErrorWithCode, bool) {
	var errWithCode *ErrorWithCode
	if errors.As(err, &errWithCode) {
		return errWithCode, true
	}
	return nil, false
}

// TranslateError translates an error using the context's language preference
func TranslateError(c *gin.Context, err error) string {
	if err == nil {
		return ""
	}
	if errWithCode, ok := AsErrorWithCode(err); ok {
		return errWithCode.Translate(languageFromContext(c))
	}
	var i18nErr *I18nError
	if errors.As(err, &i18nErr) {
		return i18nErr.Translate(languageFromContext(c))
	}
	return err.Error()
}
