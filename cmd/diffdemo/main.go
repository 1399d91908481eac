// Command diffdemo is a small HTTP service demonstrating
// reactivearray.Array end to end: POST /api/items mutates a shared array
// of demo items, GET /api/stream is a Server-Sent Events translator that
// turns each published reactivearray.Snapshot into a series of JSON
// events a browser-side list view can apply directly.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edirooss/zmux-server/cmd/diffdemo/internal/itemstore"
	"github.com/edirooss/zmux-server/eventbus/redisbus"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// zapLogger is gin request-logging middleware: one structured log line
// per request, leveled by response status.
func zapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		var errs []error
		for _, ge := range c.Errors {
			if ge.Err != nil {
				errs = append(errs, ge.Err)
			}
		}
		joinedErr := errors.Join(errs...)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}
		if joinedErr != nil {
			fields = append(fields, zap.Error(joinedErr))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("diffdemo")

	store := itemstore.New()

	// When REDIS_ADDR is set, every snapshot published by the store is also
	// rebroadcast over Redis Pub/Sub via redisbus, so a consumer in another
	// process can subscribe without sharing this one's reactivearray.Array.
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})
	r.Use(gin.Recovery())

	if os.Getenv("ENV") == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(zapLogger(log))

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/api/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Array().Snapshot())
	})

	r.POST("/api/items", func(c *gin.Context) {
		var body struct {
			Label string `json:"label" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		item := itemstore.Item{ID: uuid.NewString(), Label: body.Label}
		store.Append(item)
		c.JSON(http.StatusCreated, item)
	})

	r.DELETE("/api/items/:id", func(c *gin.Context) {
		if !store.RemoveByID(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"message": "item not found"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/api/items/shuffle", func(c *gin.Context) {
		store.Shuffle()
		c.Status(http.StatusNoContent)
	})

	r.GET("/api/stream", func(c *gin.Context) {
		itemstore.StreamSSE(c, store, log)
	})

	httpserver := &http.Server{
		Addr:           "127.0.0.1:8080",
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   0, // SSE responses are long-lived; no write deadline
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 15,
		ErrorLog:       zap.NewStdLog(log.Named("http").WithOptions(zap.AddCallerSkip(1))),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("running HTTP server", zap.String("addr", httpserver.Addr))
		if err := httpserver.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpserver.Shutdown(shutdownCtx)
	})
	if redisClient != nil {
		bus := redisbus.New[itemstore.Item](redisClient, "diffdemo:items", log)
		g.Go(func() error {
			defer bus.Close()
			ch := store.Array().Subscribe(gctx)
			for {
				select {
				case snap, ok := <-ch:
					if !ok {
						return nil
					}
					bus.Publish(snap)
				case <-gctx.Done():
					return nil
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
