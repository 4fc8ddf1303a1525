// Package observability provides request logging for the tracker HTTP
// surface.
package observability

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Options tunes RequestLogger output.
type Options struct {
	// Verbose adds the raw query string to each line.
	Verbose bool
}

// RequestLogger logs one key=value line per request.
func RequestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return RequestLoggerWithOptions(logger, Options{})
}

// RequestLoggerWithOptions logs one key=value line per request.
func RequestLoggerWithOptions(logger *log.Logger, opts Options) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			status := rw.status
			if status == 0 {
				status = http.StatusOK
			}
			requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
			if requestID == "" {
				requestID = "-"
			}
			line := "http request method=" + r.Method +
				" path=" + r.URL.Path +
				" status=" + strconv.Itoa(status) +
				" bytes=" + strconv.Itoa(rw.bytes) +
				" latency=" + time.Since(start).String() +
				" request_id=" + requestID
			if opts.Verbose && r.URL.RawQuery != "" {
				line += " query=" + r.URL.RawQuery
			}
			logger.Print(line)
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseRecorder) Write(body []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(body)
	w.bytes += n
	return n, err
}

func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
