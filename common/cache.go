// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/penny-vault/voldash/observability/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
)

const (
	cacheKeyPrefix = "voldash:"
	tierLocal      = "local"
	tierRedis      = "redis"
)

// Cache stores lz4 compressed values in a process local LRU and, optionally,
// a shared redis instance. Redis failures degrade to a cache miss; after
// repeated failures redis is skipped until the breaker lets a probe through
type Cache struct {
	local   *lru.Cache
	rdb     *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
}

func newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    tierRedis,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a missing key is a normal answer, not a failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("Breaker", name).Str("From", from.String()).Str("To", to.String()).Msg("cache breaker changed state")
		},
	})
}

// NewCache creates a cache holding up to size entries locally. rdb may be nil
func NewCache(size int, rdb *redis.Client, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrCacheSize, size)
	}

	local, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		local: local,
		rdb:   rdb,
		ttl:   ttl,
	}
	if rdb != nil {
		c.breaker = newBreaker()
	}
	return c, nil
}

// NewCacheFromConfig creates a cache from the `cache.*` settings
func NewCacheFromConfig() (*Cache, error) {
	var rdb *redis.Client
	if viper.GetBool("cache.redis") {
		opt, err := redis.ParseURL(viper.GetString("cache.redis_url"))
		if err != nil {
			log.Error().Err(err).Msg("could not parse redis URL")
			return nil, err
		}
		rdb = redis.NewClient(opt)
	}

	ttl := time.Duration(viper.GetInt("cache.ttl")) * time.Second
	return NewCache(viper.GetInt("cache.local_size"), rdb, ttl)
}

// Key derives a fixed length cache key from parts
func Key(parts ...string) string {
	sum := blake3.Sum256([]byte(strings.Join(parts, "\x1f")))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the value stored under key. ok is false on a miss
func (c *Cache) Get(ctx context.Context, key string) (val []byte, ok bool) {
	if c == nil {
		return nil, false
	}

	if v, hit := c.local.Get(key); hit {
		val, err := Decompress(v.([]byte))
		if err == nil {
			metrics.CacheRequests.WithLabelValues(tierLocal, "hit").Inc()
			return val, true
		}
		log.Warn().Err(err).Str("Key", key).Msg("dropping corrupt cache entry")
		c.local.Remove(key)
	}
	metrics.CacheRequests.WithLabelValues(tierLocal, "miss").Inc()

	if c.rdb == nil {
		return nil, false
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.rdb.GetEx(ctx, key, c.ttl).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, gobreaker.ErrOpenState) {
			log.Warn().Err(err).Str("Key", key).Msg("redis get failed")
		}
		metrics.CacheRequests.WithLabelValues(tierRedis, "miss").Inc()
		return nil, false
	}

	compressed := res.([]byte)
	val, err = Decompress(compressed)
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not decompress redis value")
		metrics.CacheRequests.WithLabelValues(tierRedis, "miss").Inc()
		return nil, false
	}

	metrics.CacheRequests.WithLabelValues(tierRedis, "hit").Inc()
	c.local.Add(key, compressed)
	return val, true
}

// Set stores val under key in every configured tier
func (c *Cache) Set(ctx context.Context, key string, val []byte) error {
	if c == nil {
		return nil
	}

	compressed, err := Compress(val)
	if err != nil {
		return err
	}
	c.local.Add(key, compressed)

	if c.rdb == nil {
		return nil
	}
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, key, compressed, c.ttl).Err()
	})
	return err
}

// Len returns the number of locally cached entries
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.local.Len()
}
