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

package common_test

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sony/gobreaker"

	"github.com/penny-vault/voldash/common"
)

var _ = Describe("Cache with redis", func() {
	var (
		cache      *common.Cache
		ctx        context.Context
		db         *redis.Client
		mock       redismock.ClientMock
		payload    []byte
		compressed []byte
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, mock = redismock.NewClientMock()
		cache, err = common.NewCache(4, db, time.Minute)
		Expect(err).To(BeNil())

		payload = bytes.Repeat([]byte(`{"strike":5000,"vol":0.19}`), 16)
		compressed, err = common.Compress(payload)
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("writes through to redis", func() {
		mock.ExpectSet("k", compressed, time.Minute).SetVal("OK")
		Expect(cache.Set(ctx, "k", payload)).To(Succeed())
	})

	It("falls back to redis on a local miss", func() {
		mock.ExpectGetEx("k", time.Minute).SetVal(string(compressed))

		val, ok := cache.Get(ctx, "k")
		Expect(ok).To(BeTrue())
		Expect(val).To(Equal(payload))

		// the second read is served locally
		val, ok = cache.Get(ctx, "k")
		Expect(ok).To(BeTrue())
		Expect(val).To(Equal(payload))
	})

	It("treats a missing key as a miss", func() {
		mock.ExpectGetEx("k", time.Minute).RedisNil()
		_, ok := cache.Get(ctx, "k")
		Expect(ok).To(BeFalse())
	})

	It("degrades to a miss when redis fails", func() {
		mock.ExpectGetEx("k", time.Minute).SetErr(errors.New("connection refused"))
		_, ok := cache.Get(ctx, "k")
		Expect(ok).To(BeFalse())
	})

	It("stops calling redis after repeated failures", func() {
		for idx := 0; idx < 5; idx++ {
			mock.ExpectGetEx("k", time.Minute).SetErr(errors.New("connection refused"))
			_, ok := cache.Get(ctx, "k")
			Expect(ok).To(BeFalse())
		}

		err := cache.Set(ctx, "k", payload)
		Expect(errors.Is(err, gobreaker.ErrOpenState)).To(BeTrue())

		// the local tier keeps working while redis is skipped
		val, ok := cache.Get(ctx, "k")
		Expect(ok).To(BeTrue())
		Expect(val).To(Equal(payload))
	})
})
