package handlers

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// SuccessResponse returns a 200 OK with data
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse returns a 201 Created with data
func CreatedResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContentResponse returns a 204 No Content
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// BadRequest returns a 400 Bad Request error
func BadRequest(message string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, message)
}

// Unauthorized returns a 401 Unauthorized error
func Unauthorized(message string) error {
	return httperror.NewHTTPError(http.StatusUnauthorized, message)
}

// RequireAdmin rejects the request unless the caller identified as an admin.
func RequireAdmin(c echo.Context) error {
	role := appcontext.GetRole(c.Request().Context())
	if role != string(models.RoleAdmin) {
		return httperror.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	return nil
}

// storeError converts state-store errors into HTTP errors. Anything
// unrecognized falls through as-is for the error middleware to treat as a
// gateway failure.
func storeError(err error) error {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return httperror.NewHTTPError(http.StatusNotFound, notFound.Error())
	}
	var denied *store.DeniedError
	if errors.As(err, &denied) {
		return httperror.NewHTTPError(http.StatusConflict, denied.Error())
	}
	return httperror.NewHTTPError(http.StatusBadGateway, "persistence write failed")
}
