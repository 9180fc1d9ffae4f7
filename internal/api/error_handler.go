package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Redirect
// is only set on authorization failures of admin routes.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Applies the route-class 401 policy: admin routes receive a redirect
//     hint back to the dashboard, public storefront routes get a plain 401
//     and are otherwise left alone.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)

		resp := errorResponse{Error: msg}
		if code == http.StatusUnauthorized && strings.HasPrefix(c.Path(), "/admin") {
			resp.Redirect = "/admin"
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Struct validation failures from the service layer.
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, verrs.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "not authorized or session expired"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrWizardNotFound):
		return http.StatusNotFound, "wizard not found"
	case errors.Is(err, domain.ErrSlotTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrNotConfirmable):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidInterval):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "scheduling service unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
