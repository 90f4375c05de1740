package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// Init configures the global logrus logger
func Init(level string) {
	log.SetFormatter(&log.JSONFormatter{})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// FromContext returns an entry tagged with the request id, when one was assigned
func FromContext(c *gin.Context) *log.Entry {
	entry := log.NewEntry(log.StandardLogger())
	if c == nil {
		return entry
	}
	if id := c.GetString(RequestIDKey); id != "" {
		entry = entry.WithField(RequestIDKey, id)
	}
	return entry
}

// RequestLogger logs one line per request once the handler chain completes
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		entry := FromContext(c).WithFields(log.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})

		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request completed")
		}
	}
}
