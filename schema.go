package ormnaming

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

var (
	mappingsMu sync.RWMutex
	mappings   = make(map[reflect.Type]*EntityMapping)
	byTable    = make(map[string]*EntityMapping)
)

// Register stores the mapping of model type T. Registration is expected to
// happen once, from an init function; registering T again replaces the
// previous mapping. T and *T share one entry.
func Register[T any](m *EntityMapping) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	mappingsMu.Lock()
	defer mappingsMu.Unlock()
	if old, ok := mappings[typ]; ok && byTable[old.TableName()] == old {
		delete(byTable, old.TableName())
	}
	mappings[typ] = m
	byTable[m.TableName()] = m
}

// MustRegister resolves and registers the mapping of model type T.
// It panics if the mapping cannot be resolved.
func MustRegister[T any](r *Resolver) *EntityMapping {
	m, err := Resolve[T](context.Background(), r)
	if err != nil {
		panic(fmt.Sprintf("ormnaming: cannot register %v: %v", reflect.TypeOf((*T)(nil)).Elem(), err))
	}
	Register[T](m)
	return m
}

// Load returns the registered mapping of model type T. It panics if T has
// not been registered.
func Load[T any]() *EntityMapping {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if m, ok := Lookup(typ); ok {
		return m
	}
	panic(fmt.Sprintf("ormnaming: mapping not registered for type %v", typ))
}

// Lookup returns the registered mapping of typ.
func Lookup(typ reflect.Type) (*EntityMapping, bool) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	mappingsMu.RLock()
	defer mappingsMu.RUnlock()
	m, ok := mappings[typ]
	return m, ok
}

// LookupTable returns the registered mapping with the given physical table name.
func LookupTable(table string) (*EntityMapping, bool) {
	mappingsMu.RLock()
	defer mappingsMu.RUnlock()
	m, ok := byTable[table]
	return m, ok
}

// Registered returns all registered mappings ordered by table name.
func Registered() []*EntityMapping {
	mappingsMu.RLock()
	out := make([]*EntityMapping, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, m)
	}
	mappingsMu.RUnlock()

	slices.SortFunc(out, func(a, b *EntityMapping) int {
		return strings.Compare(a.TableName(), b.TableName())
	})
	return out
}
