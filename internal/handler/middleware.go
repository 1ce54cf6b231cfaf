package handler

import (
	"net/http"

	"github.com/antscrawling/SupplyChainManagement/internal/infra/resilience"
)

// ConcurrencyLimit bounds the number of requests handled at once with a
// bulkhead. Requests beyond the limit wait; a cancelled request gives up its
// place in line.
func ConcurrencyLimit(b *resilience.Bulkhead) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := b.Acquire(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "server busy")
				return
			}
			defer b.Release()
			next.ServeHTTP(w, r)
		})
	}
}
