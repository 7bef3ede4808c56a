package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/usermodel/logger"
)

// PanicError carries a recovered panic value as an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// PanicRenderer writes the response for a recovered panic.
type PanicRenderer func(c *gin.Context, err error)

// Recovery returns a Gin middleware that recovers from panics, logs the
// stack and hands the panic to render. A nil render falls back to a bare
// 500.
func Recovery(log *logger.Logger, render PanicRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			log.WithContext(c.Request.Context()).Error("Panic recovered", logger.Fields(
				logger.FieldError, fmt.Sprintf("%v", v),
				"stack", string(debug.Stack()),
				logger.FieldPath, c.Request.URL.Path,
				logger.FieldMethod, c.Request.Method,
				"client_ip", c.ClientIP(),
			))

			err := &PanicError{Value: v}
			if render == nil || c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Abort()
			render(c, err)
		}()
		c.Next()
	}
}
