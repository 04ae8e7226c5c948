package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string    `json:"nombre"`
	Count int       `json:"count"`
	When  time.Time `json:"when"`
	Tags  []string  `json:"tags"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	in := sample{Name: "Goku", Count: 3, When: time.Unix(1700000000, 0).UTC(), Tags: []string{"a", "b"}}

	for _, name := range []string{"json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			c, err := CodecByName[sample](name)
			require.NoError(t, err)

			b, err := c.Encode(in)
			require.NoError(t, err)

			out, err := c.Decode(b)
			require.NoError(t, err)
			require.Equal(t, in.Name, out.Name)
			require.Equal(t, in.Count, out.Count)
			require.True(t, in.When.Equal(out.When))
			require.Equal(t, in.Tags, out.Tags)
		})
	}
}

func TestCodecByName_Unknown(t *testing.T) {
	_, err := CodecByName[sample]("xml")
	require.Error(t, err)
}

func TestJSON_UsesJSONTags(t *testing.T) {
	b, err := JSON[sample]{}.Encode(sample{Name: "Vegeta"})
	require.NoError(t, err)
	require.Contains(t, string(b), `"nombre":"Vegeta"`)
}
