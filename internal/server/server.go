package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"asciifm/internal/engine"
	"asciifm/internal/resolver"
)

const maxColumns = 400

type handler struct {
	eng    *engine.Engine
	logger *slog.Logger
}

// New builds the HTTP server. Art is always served without colour.
func New(eng *engine.Engine, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	h := &handler{eng: eng, logger: logger.With(slog.String("component", "server"))}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "asciifm running")
	})
	e.GET("/art", h.art)

	return e
}

// Start serves on addr until ctx is cancelled.
func Start(ctx context.Context, eng *engine.Engine, addr string, logger *slog.Logger) error {
	e := New(eng, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", slog.String("addr", addr))
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *handler) art(c echo.Context) error {
	params := c.QueryParams()
	request, err := resolver.NewRequest(params.Get("user"), params["album"], params["artist"])
	if err != nil {
		return c.String(http.StatusBadRequest, "give user, album or artist\n")
	}

	opts := h.eng.Options
	opts.Color = false
	if v := c.QueryParam("columns"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxColumns {
			return c.String(http.StatusBadRequest, "columns must be between 1 and "+strconv.Itoa(maxColumns)+"\n")
		}
		opts.Columns = n
	}

	out, err := h.eng.Render(c.Request().Context(), request, opts)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("render failed",
			slog.String("request", request.String()),
			slog.Int("status", status),
			slog.Any("error", err))
		return c.String(status, err.Error()+"\n")
	}

	var buf bytes.Buffer
	if _, err := out.WriteTo(&buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, resolver.ErrInvalidUsername),
		errors.Is(err, resolver.ErrNoRecentTracks),
		errors.Is(err, resolver.ErrAlbumNotFound),
		errors.Is(err, resolver.ErrArtistNotFound),
		errors.Is(err, engine.ErrImageNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
