package api

import (
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type errorBody struct {
	Error APIError `json:"error"`
}

func writeJSON(c *echo.Context, status int, v any) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	return json.NewEncoder(res).Encode(v)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, errorBody{Error: APIError{Message: msg, Type: errType}})
}
