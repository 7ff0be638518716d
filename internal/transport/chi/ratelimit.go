package chi

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
)

// RateLimitMiddleware admits requests through a shared token bucket refilled at
// rps tokens per second with the given burst. rps <= 0 disables limiting.
// Rejected requests get 429 with a Retry-After hint in whole seconds.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(rps), burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			res := limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeError(w, http.StatusTooManyRequests, ErrorResponseCodeRateLimited, domain.ErrRateLimited.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
