// Package api serves MBN image inspection over HTTP for analysis
// pipelines that want container listings without writing files.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mbnkit/internal/extract"
	"github.com/samcharles93/mbnkit/internal/logger"
	"github.com/samcharles93/mbnkit/internal/mbn"
	"github.com/samcharles93/mbnkit/pkg/mcfg"
)

// defaultMaxBody bounds uploaded images. Real MBN images are tens of KB;
// 64 MiB leaves generous headroom.
const defaultMaxBody = 64 << 20

type Server struct {
	maxBody int64
	log     logger.Logger
}

func NewServer(log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		maxBody: defaultMaxBody,
		log:     log,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/inspect", s.handleInspect)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleInspect accepts a raw MBN (or bare MCFG) image as the request
// body and answers with a per-record report.
func (s *Server) handleInspect(c *echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, s.maxBody+1))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "read body: "+err.Error())
	}
	if int64(len(body)) > s.maxBody {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", "image too large")
	}
	if len(body) == 0 {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "empty image")
	}

	payload, err := mbn.Payload(body)
	switch {
	case errors.Is(err, mbn.ErrNotELF):
		// Bare MCFG containers are accepted as-is.
		payload = body
	case err != nil:
		return writeError(c, http.StatusUnprocessableEntity, "invalid_image_error", err.Error())
	}

	rep, err := extract.Inspect(payload, extract.Options{})
	if err != nil {
		if errors.Is(err, mcfg.ErrFormat) {
			return writeError(c, http.StatusUnprocessableEntity, "invalid_image_error", err.Error())
		}
		s.log.Error("inspect failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	s.log.Info("image inspected", "report", rep.ID, "records", len(rep.Records))
	return writeJSON(c, http.StatusOK, rep)
}
