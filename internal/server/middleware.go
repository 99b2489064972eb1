package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and writes a structured access
// log line. Integrity and server failures carry the collected handler errors.
func (s *Server) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		for _, ginErr := range c.Errors {
			fields = append(fields, zap.Error(ginErr.Err))
		}

		switch {
		case c.Writer.Status() >= 500:
			s.log.Error("request failed", fields...)
		case c.Writer.Status() >= 400:
			s.log.Warn("request rejected", fields...)
		default:
			s.log.Info("request", fields...)
		}
	}
}
