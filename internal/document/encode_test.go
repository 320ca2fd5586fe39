package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_RoundTrip(t *testing.T) {
	src := `trainer: forces
optim:
  batch_size: 5
  lr_initial: 0.0001
  tiny: 1.e-9
  scheduler: "Null"
  looks_numeric: "1e-4"
  flag: true
  nothing: null
  labels: [energy, forces]
  params: {}
  empty: []
`
	doc := mustParse(t, src)

	out, err := Encode(doc.Root)
	require.NoError(t, err)

	again, err := ParseString(string(out))
	require.NoError(t, err)

	assert.Equal(t, doc.Root.Keys(), again.Root.Keys())
	assert.Equal(t, doc.Root.Get("optim").Keys(), again.Root.Get("optim").Keys())
	assert.Equal(t, ToNative(doc.Root.CtyValue()), ToNative(again.Root.CtyValue()))
	assert.Equal(t, "Null", ToNative(again.Root.Lookup("optim.scheduler").Scalar))
	assert.Equal(t, "1e-4", ToNative(again.Root.Lookup("optim.looks_numeric").Scalar))
}

func TestNative_RoundTrip(t *testing.T) {
	in := map[string]any{
		"module":  "energy_head",
		"layers":  int64(3),
		"scale":   0.5,
		"enabled": true,
		"targets": []any{"energy", nil, int64(1)},
		"nested":  map[string]any{"b": "x", "a": 1.5},
	}

	n, err := FromNative(in, Pos{Filename: "native"})
	require.NoError(t, err)

	assert.Equal(t, []string{"enabled", "layers", "module", "nested", "scale", "targets"}, n.Keys())
	assert.Equal(t, in, ToNative(n.CtyValue()))
}

func TestToNative_WholeFloatsBecomeInts(t *testing.T) {
	doc := mustParse(t, "a: 2.0\nb: 2.5\n")

	native := ToNative(doc.Root.CtyValue()).(map[string]any)

	assert.Equal(t, int64(2), native["a"])
	assert.Equal(t, 2.5, native["b"])
}
