// Package codec centralizes model encoding for snapshots.
//
// Snapshots record the codec name in their header and are decoded with the
// codec registered under that name, regardless of Default.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ErrDuplicate is returned by Register for names already in use.
var ErrDuplicate = errors.New("codec: duplicate name")

// Default is the codec used for newly written snapshots.
var Default Codec = GoJSON{}

var (
	mu       sync.RWMutex
	registry = map[string]Codec{
		JSON{}.Name():   JSON{},
		GoJSON{}.Name(): GoJSON{},
	}
)

// Register makes c available to ByName under c.Name().
func Register(c Codec) error {
	mu.Lock()
	defer mu.Unlock()

	name := c.Name()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	registry[name] = c
	return nil
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
