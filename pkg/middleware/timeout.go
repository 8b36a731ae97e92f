package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/kevin07696/pesapal-merchant/pkg/resilience"
)

// Timeout bounds the request context by config.HTTPHandler unless the
// context already carries a deadline
func Timeout(config *resilience.TimeoutConfig, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if _, hasDeadline := r.Context().Deadline(); hasDeadline {
			next(w, r, ps)
			return
		}

		ctx, cancel := config.HandlerContext(r.Context())
		defer cancel()

		next(w, r.WithContext(ctx), ps)
	}
}
