package i18n

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with the status carried by err and a
// translated {"error": ...} body. Errors without a code become a generic 500.
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	errWithCode, ok := AsErrorWithCode(err)
	if !ok {
		errWithCode = ErrInternalServer
	}
	c.AbortWithStatusJSON(int(errWithCode.GetCode()), gin.H{"error": TranslateError(c, errWithCode)})
}

// RespondWithSuccess sends a success HTTP response with an internationalized message
func RespondWithSuccess(c *gin.Context, statusCode int, msgID string, data map[string]any) {
	response := gin.H{"message": TranslateMessage(c, msgID, nil)}
	for k, v := range data {
		response[k] = v
	}
	c.JSON(statusCode, response)
}

// SuccessResponse represents a response with success message
type SuccessResponse struct {
	StatusCode int
	MsgID      string
	Data       map[string]any
}

// With adds a key-value pair to the response body
func (r *SuccessResponse) With(key string, value any) *SuccessResponse {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// Send sends the response to the client
func (r *SuccessResponse) Send(c *gin.Context) {
	RespondWithSuccess(c, r.StatusCode, r.MsgID, r.Data)
}

// Success creates a new success response with status code 200
func Success(msgID string) *SuccessResponse {
	return &SuccessResponse{StatusCode: http.StatusOK, MsgID: msgID}
}
