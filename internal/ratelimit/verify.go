package ratelimit

import (
	"fmt"
	"net/http"

	redis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// DefaultVerifyRate bounds license verification calls per client IP.
const DefaultVerifyRate = "60-M"

// NewVerifyLimiter builds the middleware guarding the public license
// verification endpoint. Without a Redis client it falls back to an
// in-process store, which is enough for a single instance.
func NewVerifyLimiter(client *redis.Client, formatted string) (func(http.Handler) http.Handler, error) {
	if formatted == "" {
		formatted = DefaultVerifyRate
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse rate %q: %w", formatted, err)
	}
	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "rl:verify",
		})
		if err != nil {
			return nil, fmt.Errorf("ratelimit: redis store: %w", err)
		}
	} else {
		store = memory.NewStore()
	}
	mw := stdlib.NewMiddleware(limiter.New(store, rate))
	return mw.Handler, nil
}
