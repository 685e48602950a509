package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"library-circulation/internal/apperr"
)

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.InvalidState, apperr.CapacityExhausted:
		return http.StatusConflict
	case apperr.Validation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeError maps a usecase error onto the response. Internal errors are
// logged with the request id and answered with a generic message.
func writeError(c echo.Context, log *logrus.Logger, err error) error {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request().Method,
			"path":       c.Path(),
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}).Error("request failed")
	}
	return c.JSON(status, ErrorResponse{Error: apperr.Message(err)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
