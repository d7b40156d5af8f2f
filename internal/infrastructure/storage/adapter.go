package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/example/table-booker/internal/internaltypes"
	"github.com/sirupsen/logrus"
)

const (
	KeyTables   = "restaurantTables"
	KeyBookings = "tableBookings"
	KeyUser     = "userEmail"
)

// Backend is a flat key-value store. Set replaces the whole value under key.
// Get returns internaltypes.ErrNotFound when the key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Adapter persists records as JSON on top of a Backend. Missing or corrupt
// values read back as empty; only backend I/O failures surface as errors.
type Adapter struct {
	backend   Backend
	namespace string
	log       *logrus.Entry
}

func NewAdapter(b Backend, namespace string, log *logrus.Entry) *Adapter {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Adapter{backend: b, namespace: namespace, log: log}
}

func (a *Adapter) key(k string) string {
	if a.namespace == "" {
		return k
	}
	return a.namespace + ":" + k
}

// LoadList decodes the sequence stored under key into dst, a pointer to a slice.
// dst is reset to an empty slice when nothing usable is stored.
func (a *Adapter) LoadList(ctx context.Context, key string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("storage: LoadList wants a pointer to a slice, got %T", dst)
	}
	empty := reflect.MakeSlice(rv.Elem().Type(), 0, 0)

	raw, err := a.backend.Get(ctx, a.key(key))
	if errors.Is(err, internaltypes.ErrNotFound) {
		rv.Elem().Set(empty)
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		a.log.WithError(err).WithField("key", key).Warn("corrupt value, treating as empty")
		rv.Elem().Set(empty)
		return nil
	}
	if rv.Elem().IsNil() {
		rv.Elem().Set(empty)
	}
	return nil
}

func (a *Adapter) SaveList(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := a.backend.Set(ctx, a.key(key), b); err != nil {
		return fmt.Errorf("storage: set %s: %w", key, err)
	}
	return nil
}

// LoadString reads a raw string value; absent reads as "".
func (a *Adapter) LoadString(ctx context.Context, key string) (string, error) {
	raw, err := a.backend.Get(ctx, a.key(key))
	if errors.Is(err, internaltypes.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: get %s: %w", key, err)
	}
	return string(raw), nil
}

func (a *Adapter) SaveString(ctx context.Context, key, v string) error {
	if err := a.backend.Set(ctx, a.key(key), []byte(v)); err != nil {
		return fmt.Errorf("storage: set %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) Close() error { return a.backend.Close() }
