// Package normalization maps loosely written configuration strings onto enums.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization.
type Normalizer[T comparable] struct {
	name         string
	validValues  map[string]T
	defaultValue T
	validKeys    []string
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// name is used in error messages; keys are matched case-insensitively after trimming.
func NewNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		name:         name,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize converts raw to the enum type, returning the default when unrecognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, ok := n.Lookup(raw); ok {
		return value
	}
	return n.defaultValue
}

// Lookup converts raw to the enum type and reports whether it was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	value, ok := n.validValues[clean(raw)]
	return value, ok
}

// NormalizeWithError converts raw to the enum type or describes the valid options.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if value, ok := n.Lookup(raw); ok {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", n.name, raw, n.validKeys)
}

// ValidKeys returns all valid normalized keys in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
