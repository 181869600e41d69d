package sim

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// StringRouter serves the Holiday REST API for one string.
func StringRouter(s *String, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.PUT(wire.RESTPath, func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		globes, err := wire.DecodeREST(body, s.NumGlobes())
		if err != nil {
			s.Reject()
			log.Warn().Err(err).Str("from", c.ClientIP()).Msg("rejected setlights")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.Offer(globes)
		c.JSON(http.StatusOK, gin.H{"value": true})
	})
	r.GET(wire.RESTPath, func(c *gin.Context) {
		globes := s.Globes()
		msg := wire.Lights{Lights: make([]string, len(globes))}
		for i, g := range globes {
			msg.Lights[i] = g.Hex()
		}
		c.JSON(http.StatusOK, msg)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Stats())
	})
	return r
}

// ViewerRouter serves the websocket feed plus the sim controls.
func (sm *Sim) ViewerRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws", gin.WrapF(sm.viewer.HandleFramesWS))
	r.GET("/health", sm.handleHealth)
	r.POST("/pause", func(c *gin.Context) {
		on := !sm.Paused()
		if v, ok := c.GetQuery("on"); ok {
			on = v == "1" || v == "true"
		}
		sm.Pause(on)
		c.JSON(http.StatusOK, gin.H{"paused": on})
	})
	r.POST("/reset", func(c *gin.Context) {
		sm.Reset()
		c.JSON(http.StatusOK, gin.H{"reset": true})
	})
	return r
}

func (sm *Sim) handleHealth(c *gin.Context) {
	stats := make([]Stats, len(sm.Strings))
	for i, s := range sm.Strings {
		stats[i] = s.Stats()
	}
	c.JSON(http.StatusOK, gin.H{
		"frame_id": sm.frameID.Load(),
		"uptime_s": time.Since(sm.start).Seconds(),
		"globes":   sm.opts.NumGlobes,
		"fps":      sm.opts.FPS,
		"paused":   sm.Paused(),
		"clients":  sm.viewer.Clients(),
		"strings":  stats,
	})
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// serveHTTP runs srv on ln until ctx is cancelled.
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
