// Package web serves discovery results over a local HTTP API with a small
// browser front end.
package web

import (
	"context"
	"embed"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"modlauncher/internal/discovery"
	"modlauncher/internal/errors"
	"modlauncher/internal/logging"
	"modlauncher/internal/model"
)

//go:embed static/*
var staticFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server exposes one discovery session. Passes run on demand and the last
// result is cached.
type Server struct {
	echo    *echo.Echo
	session *discovery.Session
	logger  *log.Logger

	mu     sync.Mutex
	result *discovery.Result
}

// NewServer creates a server for session. logger may be nil.
func NewServer(session *discovery.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		echo:    echo.New(),
		session: session,
		logger:  logger,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(s.recover)

	api := s.echo.Group("/api")
	api.GET("/mods", s.handleMods)
	api.GET("/mods/:key", s.handleMod)
	api.GET("/selection", s.handleSelection)
	api.GET("/report", s.handleReport)
	api.POST("/refresh", s.handleRefresh)
	api.GET("/version", s.handleVersion)

	sub, _ := fs.Sub(staticFS, "static")
	s.echo.StaticFS("/", sub)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Listen binds addr.
func (s *Server) Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	s.logger.Info("web server listening", "url", "http://"+ln.Addr().String())
	return ln, nil
}

// Serve runs until ctx is done, then shuts the server down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.echo.Listener = ln

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		done <- s.echo.Shutdown(shutdownCtx)
	}()

	if err := s.echo.StartServer(s.echo.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStackTraceAndPrefix(err, "web server")
	}
	if err := <-done; err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}

// withResult runs fn on the cached result, running a pass first when there
// is none or refresh is set. fn runs under the server lock, so record
// lookups never overlap a new pass on the session.
func (s *Server) withResult(ctx context.Context, refresh bool, fn func(res *discovery.Result) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil || refresh {
		res, err := s.session.Run(ctx)
		if err != nil {
			return err
		}
		s.result = res
	}
	return fn(s.result)
}

func (s *Server) handleMods(c echo.Context) error {
	return s.withResult(c.Request().Context(), false, func(res *discovery.Result) error {
		return c.JSON(http.StatusOK, res.Snapshot())
	})
}

func (s *Server) handleMod(c echo.Context) error {
	key := c.Param("key")
	return s.withResult(c.Request().Context(), false, func(res *discovery.Result) error {
		rec, ok := res.Record(key)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "unknown mod: "+key)
		}
		return c.JSON(http.StatusOK, rec)
	})
}

type selectionResponse struct {
	Key      string `json:"key"`
	Path     string `json:"path"`
	Renderer string `json:"renderer"`
}

func (s *Server) handleSelection(c echo.Context) error {
	ctx := c.Request().Context()
	return s.withResult(ctx, false, func(res *discovery.Result) error {
		resp := selectionResponse{
			Key:      res.SelectedKey,
			Renderer: s.session.Renderer(ctx).String(),
		}
		if res.Selected != nil {
			resp.Path = res.Selected.String()
		}
		return c.JSON(http.StatusOK, resp)
	})
}

func (s *Server) handleReport(c echo.Context) error {
	verbose := c.QueryParam("verbose") != ""
	return s.withResult(c.Request().Context(), false, func(res *discovery.Result) error {
		return c.String(http.StatusOK, discovery.GenerateReport(res, verbose))
	})
}

func (s *Server) handleRefresh(c echo.Context) error {
	return s.withResult(c.Request().Context(), true, func(res *discovery.Result) error {
		return c.JSON(http.StatusOK, res.Snapshot())
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"version": model.Version})
}

func (s *Server) recover(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (er error) {
		defer errors.Recover(func(err error) {
			s.logger.Error("panic in handler", "path", c.Path(), "err", errors.ErrorStack(err))
			er = err
		})
		return next(c)
	}
}
