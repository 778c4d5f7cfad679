package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
)

func InitLogger(level slog.Level) {
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})

	slog.SetDefault(slog.New(handler))
}

// RequestLogger logs one line per request after the handler chain ran.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("elapsed", time.Since(start)),
		}
		switch {
		case status >= 500:
			slog.Error("[HTTP] Request failed", attrs...)
		case status >= 400:
			slog.Warn("[HTTP] Request rejected", attrs...)
		default:
			slog.Info("[HTTP] Request served", attrs...)
		}
	}
}
