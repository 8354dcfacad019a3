package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Keys under which middleware stores request-scoped values on gin.Context.
const (
	CtxRequestID = "request_id"
	CtxSessionID = "session_id"
	CtxAdminID   = "user_id"
	CtxAdminMail = "email"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// ErrorInfo carries the machine readable code of a failure. Coupon
// rejections put their detail and shortfall in Details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Meta struct {
	RequestID  string      `json:"requestId"`
	SessionID  string      `json:"sessionId,omitempty"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination mirrors catalog.Page for listing responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func Success(c *gin.Context, code int, message string, data any) {
	write(c, code, Response{Success: true, Message: message, Data: data}, nil)
}

// SuccessWithPagination answers a listing. The caller passes the totals the
// paginator produced so headers and items always agree.
func SuccessWithPagination(c *gin.Context, code int, message string, data any, p Pagination) {
	write(c, code, Response{Success: true, Message: message, Data: data}, &p)
}

func Error(c *gin.Context, code int, errCode, message string) {
	ErrorWithDetails(c, code, errCode, message, nil)
}

// ErrorWithDetails is Error with a structured details payload.
func ErrorWithDetails(c *gin.Context, code int, errCode, message string, details any) {
	write(c, code, Response{
		Message: message,
		Error:   &ErrorInfo{Code: errCode, Message: message, Details: details},
	}, nil)
}

func write(c *gin.Context, code int, resp Response, p *Pagination) {
	resp.Code = code
	resp.Meta = Meta{
		RequestID:  requestID(c),
		SessionID:  c.GetString(CtxSessionID),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Pagination: p,
	}
	c.JSON(code, resp)
}

func requestID(c *gin.Context) string {
	if id := c.GetString(CtxRequestID); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
