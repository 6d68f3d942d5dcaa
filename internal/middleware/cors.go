package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/rs/cors"
)

// Cors allows the origins listed (comma-separated) in CORS_ORIGINS,
// or any origin when the variable is unset. Credentialed requests
// need the echo-the-origin behavior of AllowOriginFunc, a wildcard
// header will not do.
func Cors() Middleware {
	var allowed []string
	if origins, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		for _, origin := range strings.Split(origins, ",") {
			allowed = append(allowed, strings.TrimSpace(origin))
		}
	}
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			if len(allowed) == 0 {
				return true
			}
			for _, a := range allowed {
				if origin == a {
					return true
				}
			}
			return false
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
