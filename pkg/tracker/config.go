package tracker

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Recognized configuration keys. The keyspace is open: embedders and hooks
// may store keys of their own alongside these.
const (
	KeyEndpoint          = "endpoint"
	KeyAutoSendErrors    = "autoSendErrors"
	KeyAutoDisplayWindow = "autoDisplayWindow"
	KeyWindowTitle       = "windowTitle"
	KeyWindowText        = "windowText"
)

// StylePrefix namespaces presentation settings passed through to the
// notification surface. The core never interprets them.
const StylePrefix = "style."

// boolKeys are the two keys constrained to boolean values.
var boolKeys = map[string]bool{
	KeyAutoSendErrors:    true,
	KeyAutoDisplayWindow: true,
}

func defaultSettings() map[string]any {
	return map[string]any{
		KeyEndpoint:          "",
		KeyAutoSendErrors:    false,
		KeyAutoDisplayWindow: false,
		KeyWindowTitle:       "An error occurred",
		KeyWindowText: "This application hit an unexpected error. " +
			"You can submit a report to help get it fixed.",

		StylePrefix + "background": "#fff1f0",
		StylePrefix + "color":      "#5c0011",
		StylePrefix + "border":     "1px solid #ffa39e",
		StylePrefix + "position":   "bottom-right",
	}
}

// configStore holds the live settings map. Bulk updates are atomic: either
// every entry validates and the whole map is replaced, or nothing changes.
type configStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func newConfigStore() *configStore {
	return &configStore{values: defaultSettings()}
}

// set stores key=value, rejecting non-boolean values for the boolean-only
// keys. Returns false with no mutation on rejection.
func (c *configStore) set(key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(key, value)
}

func (c *configStore) setLocked(key string, value any) bool {
	if boolKeys[key] {
		if _, ok := value.(bool); !ok {
			return false
		}
	}
	c.values[key] = value
	return true
}

func (c *configStore) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// has reports key presence regardless of whether the stored value is the
// unset sentinel (e.g. the default empty endpoint).
func (c *configStore) has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key]
	return ok
}

func (c *configStore) boolean(key string) bool {
	v, _ := c.get(key)
	b, _ := v.(bool)
	return b
}

func (c *configStore) str(key string) string {
	v, _ := c.get(key)
	s, _ := v.(string)
	return s
}

// configureAll replaces the whole configuration: snapshot the live map,
// reset to defaults, then overlay each entry through the same validation as
// set. Any rejected entry restores the snapshot in full and reports the
// offending key. A key omitted from settings therefore reverts to its
// default; bulk configuration is a replace, not a merge.
func (c *configStore) configureAll(settings map[string]any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := maps.Clone(c.values)
	c.values = defaultSettings()

	// Sorted key order keeps the failing entry deterministic.
	for _, key := range slices.Sorted(maps.Keys(settings)) {
		if !c.setLocked(key, settings[key]) {
			c.values = snapshot
			return false, fmt.Errorf("%w: %q must be a boolean, got %T",
				ErrConfigRejected, key, settings[key])
		}
	}
	return true, nil
}

// styleSettings collects the style.* entries for the notification surface,
// keyed without the prefix.
func (c *configStore) styleSettings() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string)
	for k, v := range c.values {
		if !strings.HasPrefix(k, StylePrefix) {
			continue
		}
		if s, ok := v.(string); ok {
			out[strings.TrimPrefix(k, StylePrefix)] = s
		}
	}
	return out
}
