// Package controlserver exposes the recording controls over HTTP.
package controlserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gin-gonic/gin"
	"github.com/xaionaro-go/micrecorder/pkg/recording"
	"github.com/xaionaro-go/observability"
)

const shutdownTimeout = 5 * time.Second

type Recorder interface {
	Start(ctx context.Context) (string, error)
	Stop(ctx context.Context) (string, error)
	IsRecording() bool
	OutputPath() (string, bool)
	CapturedBytes() uint64
}

var _ Recorder = (*recording.Controller)(nil)

type PathResponse struct {
	Path string `json:"path"`
}

type StatusResponse struct {
	Recording     bool   `json:"recording"`
	OutputPath    string `json:"output_path,omitempty"`
	CapturedBytes uint64 `json:"captured_bytes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	recorder Recorder
	engine   *gin.Engine
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func New(recorder Recorder) *Server {
	s := &Server{
		recorder: recorder,
		engine:   gin.New(),
	}
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(gin.Recovery())

	api := s.engine.Group("/recording")
	{
		api.POST("/start", s.handleStart)
		api.POST("/stop", s.handleStop)
		api.GET("/status", s.handleStatus)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Serve handles the requests on the listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	observability.Go(ctx, func() {
		<-ctx.Done()
		shutdownCtx, cancelFn := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancelFn()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(ctx, "unable to shutdown the HTTP server: %v", err)
		}
	})

	logger.Infof(ctx, "listening at %s", listener.Addr())
	err := srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("unable to listen at '%s': %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) handleStart(c *gin.Context) {
	ctx := c.Request.Context()
	path, err := s.recorder.Start(ctx)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, PathResponse{Path: path})
}

func (s *Server) handleStop(c *gin.Context) {
	ctx := c.Request.Context()
	path, err := s.recorder.Stop(ctx)
	if err != nil && path == "" {
		writeError(ctx, c, err)
		return
	}
	if err != nil {
		logger.Errorf(ctx, "the recording was stopped with an error: %v", err)
	}
	c.JSON(http.StatusOK, PathResponse{Path: path})
}

func (s *Server) handleStatus(c *gin.Context) {
	path, _ := s.recorder.OutputPath()
	c.JSON(http.StatusOK, StatusResponse{
		Recording:     s.recorder.IsRecording(),
		OutputPath:    path,
		CapturedBytes: s.recorder.CapturedBytes(),
	})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, recording.ErrAlreadyRecording),
		errors.Is(err, recording.ErrNotRecording),
		errors.Is(err, recording.ErrNoOutputPath),
		errors.Is(err, recording.ErrPreviousNotFinalized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, c *gin.Context, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		logger.Errorf(ctx, "request failed: %v", err)
	} else {
		logger.Debugf(ctx, "request rejected: %v", err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}
