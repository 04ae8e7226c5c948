package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeKey_NoParams(t *testing.T) {
	require.Equal(t, "cache_historial", MakeKey("historial", nil))
	require.Equal(t, "cache_historial", MakeKey("historial", map[string]any{}))
}

func TestMakeKey_SortsParams(t *testing.T) {
	require.Equal(t, "cache_historial_limit=10&page=1", MakeKey("historial", map[string]any{"page": 1, "limit": 10}))
}

func TestMakeKey_Deterministic(t *testing.T) {
	a := map[string]any{}
	a["page"] = 3
	a["limit"] = 25

	b := map[string]any{}
	b["limit"] = 25
	b["page"] = 3

	for i := 0; i < 20; i++ {
		require.Equal(t, MakeKey("historial", a), MakeKey("historial", b))
	}
}

func TestMakeKey_ValuesAreNotEscaped(t *testing.T) {
	// Known collision: values are rendered verbatim.
	withAmp := MakeKey("x", map[string]any{"a": "1&b=2"})
	twoParams := MakeKey("x", map[string]any{"a": 1, "b": 2})
	require.Equal(t, twoParams, withAmp)
}
