package request

import "net/http"

// DefaultMaxBodyBytes fits a full batch of three-line documents with room
// for JSON overhead.
const DefaultMaxBodyBytes int64 = 64 << 10

// BodyLimit caps request bodies with http.MaxBytesReader; decoding an
// oversized body fails and the handler answers 413.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
