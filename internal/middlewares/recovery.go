package middlewares

import (
	"errors"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/reminder-notifier/internal/api/respond"
)

// Recovery turns a panic in a handler into an opaque 500 response.
func Recovery() func(*ginext.Context) {
	return func(c *ginext.Context) {
		defer func() {
			if r := recover(); r != nil {
				zlog.Logger.Error().
					Interface("panic", r).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("recovered from panic")

				c.Abort()
				respond.Fail(c.Writer, http.StatusInternalServerError, errors.New("internal server error"))
			}
		}()

		c.Next()
	}
}
