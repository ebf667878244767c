package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Clusters [][]float64 `json:"clusters"`
	Names    []string    `json:"names"`
	Error    float64     `json:"error"`
}

type indentCodec struct{ JSON }

func (indentCodec) Name() string { return "json-indent" }

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	require.NoError(t, Register(indentCodec{}))

	c, ok := ByName("json-indent")
	require.True(t, ok)
	assert.Equal(t, "json-indent", c.Name())
	assert.Contains(t, Names(), "json-indent")

	assert.ErrorIs(t, Register(indentCodec{}), ErrDuplicate)
	assert.ErrorIs(t, Register(JSON{}), ErrDuplicate)
}

func TestCodecsAgree(t *testing.T) {
	in := sample{
		Clusters: [][]float64{{1, 2.5}, {-3, 0}},
		Names:    []string{"a", "b"},
		Error:    12.25,
	}

	a, err := JSON{}.Marshal(in)
	require.NoError(t, err)
	b, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	var out sample
	require.NoError(t, GoJSON{}.Unmarshal(a, &out))
	assert.Equal(t, in, out)

	assert.Equal(t, GoJSON{}, Default)
}
