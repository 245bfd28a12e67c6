package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/server/http/dto"
	"github.com/polkiloo/orderflow/internal/server/http/middleware"
)

// CurrentCaller extracts the authenticated caller from context.
func CurrentCaller(c *gin.Context) model.Caller {
	val, ok := c.Get(middleware.CallerContextKey)
	if !ok {
		return model.Caller{}
	}
	caller, _ := val.(model.Caller)
	return caller
}

var kindStatus = map[string]int{
	"EmptyOrder":         http.StatusUnprocessableEntity,
	"InvalidOrder":       http.StatusUnprocessableEntity,
	"InvalidInput":       http.StatusUnprocessableEntity,
	"NotFound":           http.StatusNotFound,
	"Forbidden":          http.StatusForbidden,
	"InvalidTransition":  http.StatusConflict,
	"AlreadyExists":      http.StatusConflict,
	"InvalidCredentials": http.StatusUnauthorized,
	"StorageUnavailable": http.StatusServiceUnavailable,
}

// respondError maps a domain error onto a status code and error body.
func respondError(c *gin.Context, err error) {
	kind := domainErrors.Kind(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: kind, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "bad_request", Message: message})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domainErrors.ErrNotFound)
		return 0, false
	}
	return id, true
}
