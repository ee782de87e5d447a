package middleware

import (
	"net/http"
	"strconv"
	"time"

	"admithub/internal/http/metrics"
)

func Metrics(collector *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			collector.Observe(r.Method, strconv.Itoa(recorder.status), time.Since(start).Seconds())
		})
	}
}
