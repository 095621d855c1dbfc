package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/foxseedlab/speakeasy/internal/config"
	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/transcription"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	livenessMessage = "SpeakEasy Transcriber API is running"

	readHeaderTimeout = 10 * time.Second
	corsMaxAge        = 12 * time.Hour
)

type Transcriber interface {
	Transcribe(ctx context.Context, requestID string, source repository.Source, payload transcription.AudioPayload) (transcription.Result, error)
}

type RouterConfig struct {
	MaxUploadBytes int64
	// AllowedOrigins lists browser origins allowed to call the API; "*" allows any.
	AllowedOrigins []string
	Metrics        http.Handler
}

func NewRouter(service Transcriber, cfg RouterConfig) http.Handler {
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(requestID(), requestLogger(), corsMiddleware(cfg.AllowedOrigins), gin.Recovery())

	h := NewRecordHandler(service, cfg.MaxUploadBytes)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": livenessMessage})
	})
	r.POST("/record", h.record)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	return r
}

// corsMiddleware answers preflight requests for the browser recorder page,
// which is served from a different origin than the API.
func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        corsMaxAge,
	}
	if len(origins) == 0 || slices.Contains(origins, config.CORSAllowAll) {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return cors.New(c)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		slog.Info("http request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(started),
			"client_ip", c.ClientIP())
	}
}
