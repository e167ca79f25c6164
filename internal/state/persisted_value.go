// Package state synchronizes single named values between memory, durable
// storage and the page URL.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"wayfinder/internal/persistence"
)

type Source string

const (
	SourceURL     Source = "url"
	SourceStorage Source = "storage"
	SourceDefault Source = "default"
)

type Options struct {
	ToURL     bool
	ToStorage bool
}

// Sinks are the collaborators a value is read from and written to. Storage
// is expected to be namespaced already.
type Sinks struct {
	Storage persistence.Gateway
	URL     persistence.URLState
	Logger  *zap.Logger
}

func (s Sinks) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// candidate is one entry of a resolution priority list.
type candidate[T any] struct {
	source Source
	read   func() (T, bool)
}

// resolveFirst walks the candidates in order and returns the first one that
// yields a value.
func resolveFirst[T any](candidates []candidate[T], def T) (T, Source) {
	for _, c := range candidates {
		if v, ok := c.read(); ok {
			return v, c.source
		}
	}
	return def, SourceDefault
}

// PersistedValue is a read/write cell mirrored into storage and/or the URL.
type PersistedValue[T any] struct {
	mu     sync.Mutex
	key    string
	def    T
	opts   Options
	sinks  Sinks
	value  T
	source Source
}

func NewPersistedValue[T any](ctx context.Context, key string, def T, opts Options, sinks Sinks) *PersistedValue[T] {
	p := &PersistedValue[T]{
		key:   key,
		def:   copyValue(def),
		opts:  opts,
		sinks: sinks,
	}
	p.value, p.source = resolveFirst(p.candidates(ctx), copyValue(def))
	return p
}

// candidates is the resolution priority list: URL, then storage, then the
// default supplied by resolveFirst.
func (p *PersistedValue[T]) candidates(ctx context.Context) []candidate[T] {
	var list []candidate[T]
	if p.opts.ToURL && p.sinks.URL != nil {
		list = append(list, candidate[T]{source: SourceURL, read: func() (T, bool) {
			raw, ok := p.sinks.URL.Get(p.key)
			if !ok {
				var zero T
				return zero, false
			}
			return p.decode(raw, SourceURL)
		}})
	}
	if p.opts.ToStorage && p.sinks.Storage != nil {
		list = append(list, candidate[T]{source: SourceStorage, read: func() (T, bool) {
			var zero T
			raw, ok, err := p.sinks.Storage.Get(ctx, p.key)
			if err != nil {
				p.sinks.logger().Warn("storage read failed",
					zap.String("key", p.key), zap.Error(err))
				return zero, false
			}
			if !ok {
				return zero, false
			}
			return p.decode(raw, SourceStorage)
		}})
	}
	return list
}

func (p *PersistedValue[T]) decode(raw string, from Source) (T, bool) {
	var v T
	if err := DecodeExact([]byte(raw), &v); err != nil {
		p.sinks.logger().Warn("ignoring malformed persisted value",
			zap.String("key", p.key),
			zap.String("source", string(from)),
			zap.Error(err))
		var zero T
		return zero, false
	}
	return v, true
}

func (p *PersistedValue[T]) Key() string { return p.key }

// Source reports where the initial value came from.
func (p *PersistedValue[T]) Source() Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Get returns a copy of the current value.
func (p *PersistedValue[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyValue(p.value)
}

// Set stores v in memory and writes it to every enabled sink.
func (p *PersistedValue[T]) Set(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.key, err)
	}

	p.mu.Lock()
	p.value = copyValue(v)
	p.mu.Unlock()

	return p.write(ctx, string(raw))
}

// Update applies fn to the current value and stores the result.
func (p *PersistedValue[T]) Update(ctx context.Context, fn func(T) T) error {
	return p.Set(ctx, fn(p.Get()))
}

// Reset restores the default and drops the stored entry.
func (p *PersistedValue[T]) Reset(ctx context.Context) error {
	p.mu.Lock()
	p.value = copyValue(p.def)
	p.mu.Unlock()

	if p.opts.ToURL && p.sinks.URL != nil {
		if raw, err := json.Marshal(p.def); err == nil {
			p.sinks.URL.Replace(p.key, string(raw))
		}
	}
	if p.opts.ToStorage && p.sinks.Storage != nil {
		if err := p.sinks.Storage.Remove(ctx, p.key); err != nil {
			return fmt.Errorf("remove %s: %w", p.key, err)
		}
	}
	return nil
}

func (p *PersistedValue[T]) write(ctx context.Context, raw string) error {
	if p.opts.ToURL && p.sinks.URL != nil {
		p.sinks.URL.Replace(p.key, raw)
	}
	if p.opts.ToStorage && p.sinks.Storage != nil {
		if err := p.sinks.Storage.Set(ctx, p.key, raw); err != nil {
			p.sinks.logger().Error("storage write failed", zap.String("key", p.key), zap.Error(err))
			return fmt.Errorf("persist %s: %w", p.key, err)
		}
	}
	return nil
}

// copyValue detaches v from any slices or maps it shares with the caller.
func copyValue[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// DecodeExact unmarshals raw into v. A fixed-size array T only accepts a
// JSON array of exactly its length; encoding/json would silently drop the
// extra elements or zero-fill the missing ones.
func DecodeExact[T any](raw []byte, v *T) error {
	if t := reflect.TypeOf(v).Elem(); t.Kind() == reflect.Array {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return err
		}
		if len(elems) != t.Len() {
			return fmt.Errorf("expected %d elements, got %d", t.Len(), len(elems))
		}
	}
	return json.Unmarshal(raw, v)
}
