package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/usermodel/version"
)

var processStart = time.Now()

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Service string `json:"service"`
	version.Info
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Info reports the service name, build information and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		up := time.Since(processStart).Truncate(time.Second)
		c.JSON(http.StatusOK, InfoResponse{
			Service:       serviceName,
			Info:          version.Get(),
			Uptime:        up.String(),
			UptimeSeconds: int64(up.Seconds()),
		})
	}
}
