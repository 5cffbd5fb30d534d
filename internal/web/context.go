package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/daman/internal/core"
	webmw "github.com/JonMunkholm/daman/internal/web/middleware"
)

// WithRequestMetadata attaches the client IP and User-Agent to ctx for the
// activity log.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithRequestMeta(ctx, core.RequestMeta{
		IPAddress: webmw.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
