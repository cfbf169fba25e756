package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the envelope every endpoint answers with. Data and Error are
// mutually exclusive; Metadata is always present.
type Response struct {
	Data       interface{} `json:"data"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// ErrorBody carries the machine-readable code, its default message, and
// optional per-field validation details.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Metadata carries request tracing information.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// Success sends a data envelope.
func Success(c *gin.Context, status int, data interface{}) {
	write(c, status, Response{Data: data})
}

// SuccessWithPagination sends a data envelope with a page window.
func SuccessWithPagination(c *gin.Context, status int, data interface{}, pagination *Pagination) {
	write(c, status, Response{Data: data, Pagination: pagination})
}

// Fail sends an error envelope for the given code.
func Fail(c *gin.Context, status int, code ErrCode) {
	write(c, status, Response{Error: errorBody(code, nil)})
}

// FailWithFields sends an error envelope with per-field validation details.
func FailWithFields(c *gin.Context, status int, code ErrCode, fields map[string]string) {
	write(c, status, Response{Error: errorBody(code, fields)})
}

// AbortFail sends an error envelope and aborts the middleware chain. Used by
// middlewares; handlers use Fail.
func AbortFail(c *gin.Context, status int, code ErrCode) {
	r := Response{Error: errorBody(code, nil)}
	r.Metadata = metadataFor(c)
	c.AbortWithStatusJSON(status, r)
}

func write(c *gin.Context, status int, r Response) {
	r.Metadata = metadataFor(c)
	c.JSON(status, r)
}

func errorBody(code ErrCode, fields map[string]string) *ErrorBody {
	return &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields}
}

func metadataFor(c *gin.Context) Metadata {
	id := c.GetString(ContextKeyRequestID)
	if id == "" {
		// Middleware not applied (tests, bare engines).
		id = uuid.NewString()
	}
	return Metadata{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
