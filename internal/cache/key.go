package cache

import (
	"fmt"
	"sort"
	"strings"
)

// KeyPrefix starts every key produced by MakeKey.
const KeyPrefix = "cache_"

// MakeKey derives the cache key for an endpoint and its parameters.
// Parameters are sorted by name so that equal sets always produce the same key.
//
// Values are rendered with %v and not escaped; a value containing '&' or '='
// can collide with a different parameter set. Callers only pass integers and
// short identifiers.
func MakeKey(endpoint string, params map[string]any) string {
	base := KeyPrefix + endpoint
	if len(params) == 0 {
		return base
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = fmt.Sprintf("%s=%v", name, params[name])
	}
	return base + "_" + strings.Join(pairs, "&")
}
