package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	errNotLoaded     = echo.NewHTTPError(http.StatusServiceUnavailable, "dataset not loaded yet")
	errChartNotFound = echo.NewHTTPError(http.StatusNotFound, "chart not found")
)

// newHTTPErrorHandler returns an echo.HTTPErrorHandler that always answers
// with a JSON body of the form {"error": ...}. Validation failures also carry
// a per-field "fields" map.
func newHTTPErrorHandler(tr ut.Translator, logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := echo.Map{"error": http.StatusText(code)}

		var verrs validator.ValidationErrors
		var herr *echo.HTTPError
		switch {
		case errors.As(err, &verrs):
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Translate(tr)
			}
			code = http.StatusBadRequest
			body = echo.Map{"error": "invalid request", "fields": fields}
		case errors.As(err, &herr):
			code = herr.Code
			body = echo.Map{"error": fmt.Sprint(herr.Message)}
		default:
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Error("writing error response", "error", err)
		}
	}
}
