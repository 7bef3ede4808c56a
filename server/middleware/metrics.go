package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/usermodel/metrics"
)

// Metrics observes request durations labelled by matched route.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
