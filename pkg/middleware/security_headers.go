package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// SecurityHeaders adds security-related HTTP headers to responses.
// The callback route is opened by the customer's browser, the IPN route by
// Pesapal; neither serves content that may be framed or scripted.
func SecurityHeaders(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")

		// HSTS only means something on a TLS connection
		if r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next(w, r, ps)
	}
}
