// Package blackboard provides the shared store ports read from and write to.
// Entries are typed: once a key holds a value of some type, only values of
// that type may replace it, unless the entry is plain text still waiting to
// be converted by a typed port.
package blackboard

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/dop251/goja"
	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/safeany"
)

var (
	// ErrNotFound is returned for keys with no entry.
	ErrNotFound = errors.New("blackboard: key not found")

	// ErrTypeChanged is returned when a write would change an entry's type.
	ErrTypeChanged = errors.New("blackboard: entry type cannot change")
)

var stringType = reflect.TypeFor[string]()

// Blackboard is a thread-safe key-value store of typed values.
//
// Usage: Create with new(Blackboard). The internal map is lazily initialized
// on the first write.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]safeany.Value
}

func (b *Blackboard) init() {
	if b.data == nil {
		b.data = make(map[string]safeany.Value)
	}
}

// Get returns the entry for key.
func (b *Blackboard) Get(key string) (safeany.Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok
}

// Set stores v under key. It fails with ErrTypeChanged if the existing entry
// holds another type, unless the existing entry is a string.
func (b *Blackboard) Set(key string, v safeany.Value) error {
	if v.Empty() {
		return fmt.Errorf("blackboard: cannot store an empty value under %q", key)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	if prev, ok := b.data[key]; ok && prev.Type() != v.Type() && prev.Type() != stringType {
		return fmt.Errorf("%w: %q holds [%s], got [%s]", ErrTypeChanged, key, prev.TypeName(), v.TypeName())
	}
	b.data[key] = v
	return nil
}

// SetFromString converts text through info and stores the result.
func (b *Blackboard) SetFromString(key, text string, info btcore.PortInfo) btcore.Result {
	res := info.ParseString(text)
	if !res.HasValue() {
		return btcore.Errorf[struct{}]("blackboard: %q: %w", key, res.Err())
	}
	if err := b.Set(key, res.Value()); err != nil {
		return btcore.FromPair(struct{}{}, err)
	}
	return btcore.OK()
}

// Has returns true if the key exists.
func (b *Blackboard) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.data[key]
	return ok
}

// Delete removes a key.
func (b *Blackboard) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}

// Keys returns all keys, sorted.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.data))
}

// Clear removes all entries.
func (b *Blackboard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string]safeany.Value)
}

// Len returns the number of entries.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Snapshot returns a shallow copy of the payloads, keyed by entry. Slices
// and maps in the copy alias the stored values.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make(map[string]any, len(b.data))
	for k, v := range b.data {
		result[k] = v.Interface()
	}
	return result
}

// Put stores v under key with T as its type.
func Put[T any](b *Blackboard, key string, v T) error {
	return b.Set(key, safeany.New(v))
}

// Lookup returns the entry for key as T.
func Lookup[T any](b *Blackboard, key string) (T, error) {
	var zero T
	v, ok := b.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	out, err := safeany.Get[T](v)
	if err != nil {
		return zero, fmt.Errorf("blackboard: %q: %w", key, err)
	}
	return out, nil
}

// ExposeToJS creates a JavaScript object with accessor methods for this
// blackboard:
//
//	blackboard.get("key")
//	blackboard.set("key", value)
//	blackboard.has("key")
//	blackboard.delete("key")
//	blackboard.keys()
//	blackboard.clear()
//	blackboard.len()
//
// Values written from JavaScript are stored with their exported Go type;
// a write that would change an entry's type throws.
func (b *Blackboard) ExposeToJS(vm *goja.Runtime) goja.Value {
	obj := vm.NewObject()
	_ = obj.Set("get", func(key string) any {
		v, _ := b.Get(key)
		return v.Interface()
	})
	_ = obj.Set("set", func(key string, value goja.Value) {
		if err := b.Set(key, safeany.Of(value.Export())); err != nil {
			panic(vm.NewGoError(err))
		}
	})
	_ = obj.Set("has", b.Has)
	_ = obj.Set("delete", b.Delete)
	_ = obj.Set("keys", b.Keys)
	_ = obj.Set("clear", b.Clear)
	_ = obj.Set("len", b.Len)
	return obj
}
