package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corpboard/corpboard/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// OK writes a success envelope with HTTP 200.
func OK[T any](ctx *gin.Context, data T, message string) {
	resp := Success(ctx, http.StatusOK, data, message, nil)
	ctx.JSON(resp.Status, resp)
}

// Created writes a success envelope with HTTP 201.
func Created[T any](ctx *gin.Context, data T, message string) {
	resp := Success(ctx, http.StatusCreated, data, message, nil)
	ctx.JSON(resp.Status, resp)
}

// Fail maps a service error to its HTTP status through the error taxonomy
// and writes the error envelope. Internal errors hide their message.
func Fail(ctx *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := "internal server error"
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindInternal {
		msg = ae.Message
	}
	resp := Error[any](ctx, status, msg, nil)
	ctx.AbortWithStatusJSON(resp.Status, resp)
}

// FailStatus writes an error envelope with an explicit status and message.
func FailStatus(ctx *gin.Context, status int, message string, detail interface{}) {
	resp := Error[any](ctx, status, message, detail)
	ctx.AbortWithStatusJSON(resp.Status, resp)
}
