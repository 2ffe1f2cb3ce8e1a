package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aeriel/clai/internal/slide"
	"github.com/aeriel/clai/internal/store"
	"github.com/aeriel/clai/internal/studio"
)

const serverErrorMessage = "Something went wrong on the server."

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// respondStudioError maps a service error onto a status and display text.
func respondStudioError(c *gin.Context, err error) {
	_ = c.Error(err)
	respondError(c, statusFor(err), studio.UserMessage(err))
}

func statusFor(err error) int {
	var (
		input *studio.InputError
		rej   *slide.Rejection
	)
	switch {
	case errors.As(err, &input), errors.As(err, &rej):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrBusy), errors.Is(err, store.ErrKindChanged):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
