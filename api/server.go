// Package api provides the HTTP surface of the video service: video
// record CRUD, upload endpoints, thumbnail serving, and bearer-token
// auth.
package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tubecast/video-services/models/common"
)

// Server is the HTTP server for the video API.
type Server struct {
	context *common.Context
	echo    *echo.Echo
}

// NewServer builds the Echo server with recovery and request logging
// middleware and all routes registered. Auth runs inside the handlers
// rather than as middleware so each endpoint can report missing vs.
// invalid credentials per the error taxonomy.
func NewServer(context *common.Context) *Server {
	s := &Server{context: context}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			context.Logger.Infof("[%s] %s %s -> %d (%s)",
				c.RealIP(), v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Static("/assets", context.Config.AssetsRoot)

	apiGroup := e.Group("/api")
	apiGroup.POST("/videos", s.CreateVideo)
	apiGroup.GET("/videos", s.ListVideos)
	apiGroup.GET("/videos/:videoID", s.GetVideo)
	apiGroup.POST("/videos/:videoID/video", s.UploadVideo)
	apiGroup.POST("/videos/:videoID/thumbnail", s.UploadThumbnail)

	s.echo = e
	return s
}

// Serve starts the HTTP server and blocks until shutdown.
func (s *Server) Serve() error {
	listenAddr := fmt.Sprintf(":%d", s.context.Config.Port)
	return s.echo.Start(listenAddr)
}

// Shutdown gracefully stops the server, letting in-flight uploads
// finish within the given context's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
