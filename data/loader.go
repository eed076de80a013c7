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

package data

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/penny-vault/voldash/dataframe"
	"github.com/penny-vault/voldash/observability/metrics"
	"github.com/penny-vault/voldash/observability/opentelemetry"
	rldf "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Loader reads a fixed list of resources from storage exactly once per process
type Loader struct {
	fs        afero.Fs
	resources []Resource

	once    sync.Once
	catalog *Catalog
}

// NewLoader creates a loader reading from fs. When no resources are given every known
// resource is loaded
func NewLoader(fs afero.Fs, resources ...Resource) *Loader {
	if len(resources) == 0 {
		resources = AllResources
	}
	list := make([]Resource, len(resources))
	copy(list, resources)
	return &Loader{
		fs:        fs,
		resources: list,
	}
}

// NewLoaderFromConfig creates a loader reading every resource from the directory in `data.dir`
func NewLoaderFromConfig() *Loader {
	dir := viper.GetString("data.dir")
	if dir == "" {
		dir = "."
	}
	log.Info().Str("DataDir", dir).Msg("reading resources from directory")
	return NewLoader(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Load returns the resource catalog. Storage is only read on the first call; every later
// call returns the identical catalog. Load never fails: a resource that cannot be read or
// parsed is present in the catalog as an unavailable, empty table
func (l *Loader) Load(ctx context.Context) *Catalog {
	l.once.Do(func() {
		l.catalog = l.load(ctx)
	})
	return l.catalog
}

func (l *Loader) load(ctx context.Context) *Catalog {
	ctx, span := opentelemetry.Tracer().Start(ctx, "data.Load")
	defer span.End()

	// resources are independent; read them in parallel and keep the declared order
	results := make([]*Result, len(l.resources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx, name := range l.resources {
		g.Go(func() error {
			results[idx] = l.loadResource(gctx, name)
			return nil
		})
	}
	_ = g.Wait()

	catalog := newCatalog(l.resources)
	fingerprint := blake3.New()
	unavailable := 0
	for _, res := range results {
		if !res.Available() {
			unavailable++
		}
		catalog.results[res.Resource] = res
		fingerprint.Write([]byte(res.Resource))
		fingerprint.Write([]byte{0x1f})
		fingerprint.Write([]byte(res.Status))
		fingerprint.Write(res.digest[:])
		metrics.ResourceLoads.WithLabelValues(string(res.Resource), string(res.Status)).Inc()
		metrics.ResourceRows.WithLabelValues(string(res.Resource)).Set(float64(res.Table().Len()))
	}

	catalog.fingerprint = hex.EncodeToString(fingerprint.Sum(nil))

	span.SetAttributes(
		attribute.Int("resources", len(l.resources)),
		attribute.Int("unavailable", unavailable),
		attribute.String("fingerprint", catalog.fingerprint),
	)

	log.Info().Int("NumResources", len(l.resources)).Int("NumUnavailable", unavailable).Str("Fingerprint", catalog.fingerprint).Msg("loaded resource catalog")
	return catalog
}

// loadResource reads a single resource; any failure (including a panic in the parser) yields
// an unavailable result
func (l *Loader) loadResource(ctx context.Context, name Resource) (res *Result) {
	fn := name.FileName()
	subLog := log.With().Str("Resource", string(name)).Str("FileName", fn).Logger()

	_, span := opentelemetry.Tracer().Start(ctx, "data.LoadResource")
	span.SetAttributes(attribute.String("resource", string(name)))
	defer span.End()

	unavailable := func(err error) *Result {
		subLog.Warn().Err(err).Msg("resource unavailable; substituting empty table")
		span.RecordError(err)
		span.SetStatus(codes.Error, "resource unavailable")
		return &Result{
			Resource: name,
			Status:   StatusUnavailable,
			Err:      err,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			res = unavailable(fmt.Errorf("%w: %v", ErrParsePanic, r))
		}
	}()

	fh, err := l.fs.Open(fn)
	if err != nil {
		return unavailable(err)
	}
	defer fh.Close()

	raw, err := afero.ReadAll(fh)
	if err != nil {
		return unavailable(err)
	}

	// a leading UTF-8 byte order mark must not end up in the first column name
	body := transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(transform.Nop))
	df, err := imports.LoadFromCSV(ctx, body, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
	})
	if err != nil {
		return unavailable(err)
	}

	table, err := tableFromDataFrame(df)
	if err != nil {
		return unavailable(err)
	}

	subLog.Debug().Int("NumRows", table.Len()).Int("NumCols", table.ColCount()).Msg("loaded resource")
	span.SetAttributes(attribute.Int("rows", table.Len()))

	return &Result{
		Resource: name,
		Status:   StatusAvailable,
		table:    table,
		digest:   blake3.Sum256(raw),
	}
}

// tableFromDataFrame copies the series of df into a row oriented table, coercing each cell
func tableFromDataFrame(df *rldf.DataFrame) (*dataframe.Table, error) {
	df.Lock()
	defer df.Unlock()

	dontLock := rldf.Options{DontLock: true}
	names := df.Names(dontLock)
	if len(names) == 0 {
		return nil, ErrNoColumns
	}

	table := &dataframe.Table{
		ColNames: names,
		Rows:     make([]dataframe.Row, 0, df.NRows(dontLock)),
	}

	iterator := df.ValuesIterator(rldf.ValuesOptions{
		InitialRow:   0,
		Step:         1,
		DontReadLock: true,
	})

	for {
		row, vals, _ := iterator(rldf.SeriesName)
		if row == nil {
			break
		}

		r := make(dataframe.Row, len(names))
		for k, v := range vals {
			r[k.(string)] = coerce(v)
		}
		table.Rows = append(table.Rows, r)
	}

	return table, nil
}

// coerce converts a raw csv cell: finite numbers become float64, blanks become nil and
// everything else is kept as a trimmed string
func coerce(v interface{}) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return s
		}
		return f
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case int64:
		return float64(val)
	default:
		return val
	}
}
