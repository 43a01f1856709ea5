package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tubecast/video-services/models/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// respondWithError maps an error to its HTTP status and a JSON error
// body. Request-level errors carry their own status and a message
// that is safe to show clients. Everything else (tool failures,
// storage failures, database errors) becomes a generic 500; the
// diagnostic detail goes to the logs, never to the client.
func (s *Server) respondWithError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal server error"
	apiErr := &common.APIError{}
	if errors.As(err, &apiErr) {
		status = apiErr.Status
		message = apiErr.Message
	}

	var detailed common.DetailedError
	if errors.As(err, &detailed) {
		s.context.Logger.Errorf("%s %s: %s", c.Request().Method,
			c.Request().RequestURI, detailed.Detail())
	} else {
		s.context.Logger.Errorf("%s %s: %v", c.Request().Method,
			c.Request().RequestURI, err)
	}
	return c.JSON(status, errorResponse{Error: message})
}
