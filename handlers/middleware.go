package handlers

import (
	"net/http"

	gorilla "github.com/gorilla/handlers"
	"github.com/pix-rail/pix-key-api/handlers/middleware"
	"go.uber.org/ratelimit"
)

func UseCors(h http.Handler) http.Handler {
	return gorilla.CORS(gorilla.AllowedOrigins([]string{"*"}))(h)
}

func UseLogging(h http.Handler) http.Handler {
	return middleware.LoggingHandler(h)
}

func UseCompress(h http.Handler) http.Handler {
	return gorilla.CompressHandler(h)
}

func UseJson(h http.Handler) http.Handler {
	// Only PUT, POST, and PATCH requests are considered.
	return gorilla.ContentTypeHandler(h, "application/json")
}

// UseRateLimiting caps requests to the given rate per second. The
// limiter blocks until the next slot is available rather than
// rejecting, which keeps clients simple.
func UseRateLimiting(h http.Handler, rps int) http.Handler {
	limiter := ratelimit.New(rps)
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		limiter.Take()
		h.ServeHTTP(rw, r)
	})
}
