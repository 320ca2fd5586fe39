package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParseJSON_WithComments(t *testing.T) {
	src := `{
  // the trainer to use
  "trainer": "forces",
  "optim": {
    "batch_size": 5,
    "lr_initial": 1e-4, /* scientific */
    "scheduler": null,
    "labels": ["energy", "forces",],
  },
}
`
	doc, err := Parse("config.jsonc", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"trainer", "optim"}, doc.Root.Keys())
	assert.Equal(t, cty.NumberIntVal(5), doc.Root.Lookup("optim.batch_size").Scalar)
	f, _ := doc.Root.Lookup("optim.lr_initial").Scalar.AsBigFloat().Float64()
	assert.Equal(t, 0.0001, f)
	assert.True(t, doc.Root.Lookup("optim.scheduler").IsNull())
	assert.Len(t, doc.Root.Lookup("optim.labels").Items, 2)

	batch := doc.Root.Get("optim").Entry("batch_size")
	assert.Equal(t, 5, batch.KeyPos.Line)
	assert.Equal(t, 5, batch.KeyPos.Column)
}

func TestParseJSON_DuplicateKey(t *testing.T) {
	src := "{\n  \"optim\": {\"batch_size\": 1,\n    \"batch_size\": 2}\n}\n"

	_, err := Parse("dup.json", []byte(src))

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
	assert.Equal(t, 3, perr.Line)
	assert.Contains(t, perr.Message, "duplicate key")
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := Parse("bad.json", []byte(`{"optim": {"batch_size": 1`))

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
}

func TestParseJSON_RootMustBeObject(t *testing.T) {
	_, err := Parse("list.json", []byte(`[1, 2]`))

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Message, "root must be a mapping")
}
