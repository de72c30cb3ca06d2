package app

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {

	// Tag every request with an id and log it on completion
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestID := req.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", requestID)

			start := time.Now()
			next.ServeHTTP(w, req)

			log.WithFields(log.Fields{
				"requestId": requestID,
				"method":    req.Method,
				"path":      req.URL.Path,
				"duration":  time.Since(start),
			}).Debug("request handled")
		})
	})
}
