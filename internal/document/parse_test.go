package document

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const sampleYAML = `trainer: forces
dataset:
  train:
    src: data/s2ef/train_100
    normalize_labels: True
  val:
    src: data/s2ef/val_20
model:
  name: hydra
  backbone:
    cutoff: 6.0
optim:
  batch_size: 5
  lr_initial: 1.e-4
  scheduler: "Null"
  clip_grad_norm: Null
  labels: [energy, forces]
`

func TestParseYAML_ScalarsAndStructure(t *testing.T) {
	doc, err := Parse("config.yml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"trainer", "dataset", "model", "optim"}, doc.Root.Keys())

	lr := doc.Root.Lookup("optim.lr_initial")
	require.NotNil(t, lr)
	assert.Equal(t, cty.Number, lr.Scalar.Type())
	f, _ := lr.Scalar.AsBigFloat().Float64()
	assert.Equal(t, 0.0001, f)

	normalize := doc.Root.Lookup("dataset.train.normalize_labels")
	require.NotNil(t, normalize)
	assert.True(t, normalize.Scalar.True())

	// A quoted "Null" stays a string at this level; the binder decides.
	sched := doc.Root.Lookup("optim.scheduler")
	require.NotNil(t, sched)
	assert.Equal(t, cty.StringVal("Null"), sched.Scalar)

	assert.True(t, doc.Root.Lookup("optim.clip_grad_norm").IsNull())

	labels := doc.Root.Lookup("optim.labels")
	require.NotNil(t, labels)
	assert.Equal(t, KindSequence, labels.Kind)
	assert.Len(t, labels.Items, 2)
}

func TestParseYAML_Positions(t *testing.T) {
	doc, err := Parse("config.yml", []byte(sampleYAML))
	require.NoError(t, err)

	optim := doc.Root.Entry("optim")
	require.NotNil(t, optim)
	assert.Equal(t, 12, optim.KeyPos.Line)
	assert.Equal(t, 1, optim.KeyPos.Column)

	batch := doc.Root.Get("optim").Entry("batch_size")
	require.NotNil(t, batch)
	assert.Equal(t, 13, batch.KeyPos.Line)
	assert.Equal(t, 3, batch.KeyPos.Column)
	assert.Equal(t, "batch_size", sampleYAML[batch.KeyPos.Byte:batch.KeyPos.Byte+len("batch_size")])
}

func TestParseYAML_DuplicateKey(t *testing.T) {
	src := "optim:\n  batch_size: 5\n  batch_size: 6\n"

	_, err := Parse("dup.yml", []byte(src))

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, 3, perr.Column)
	assert.Contains(t, perr.Message, `duplicate key "batch_size"`)
}

func TestParseYAML_SameKeyInDifferentMappings(t *testing.T) {
	src := "dataset:\n  train:\n    src: a\n  val:\n    src: b\n"

	_, err := Parse("ok.yml", []byte(src))

	require.NoError(t, err)
}

func TestParseYAML_Malformed(t *testing.T) {
	cases := map[string]string{
		"unterminated sequence": "optim:\n  labels: [energy, forces\nmodel:\n  name: x\n",
		"bad indentation":       "optim:\n  batch_size: 5\n    lr_initial: 0.1\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("bad.yml", []byte(src))

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Greater(t, perr.Line, 0)
			assert.NotEmpty(t, perr.Message)
		})
	}
}

func TestParseYAML_RootMustBeMapping(t *testing.T) {
	_, err := Parse("list.yml", []byte("- a\n- b\n"))

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Message, "root must be a mapping")
}

func TestParseYAML_EmptyDocument(t *testing.T) {
	doc, err := Parse("empty.yml", []byte(""))

	require.NoError(t, err)
	assert.Equal(t, KindMapping, doc.Root.Kind)
	assert.Empty(t, doc.Root.Entries)
}

func TestParseYAML_AliasesAndMergeKeys(t *testing.T) {
	src := `defaults: &defaults
  format: lmdb
  src: base
dataset:
  train:
    <<: *defaults
    src: data/train
  val: *defaults
`
	doc, err := Parse("alias.yml", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, cty.StringVal("data/train"), doc.Root.Lookup("dataset.train.src").Scalar)
	assert.Equal(t, cty.StringVal("lmdb"), doc.Root.Lookup("dataset.train.format").Scalar)
	assert.Equal(t, cty.StringVal("base"), doc.Root.Lookup("dataset.val.src").Scalar)
}

func TestParseYAML_AliasExpansionIsBounded(t *testing.T) {
	// --- Arrange ---
	// Nine levels of ten aliases each expand to 10^9 nodes.
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 9; i++ {
		refs := make([]string, 10)
		for j := range refs {
			refs[j] = fmt.Sprintf("*l%d", i-1)
		}
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.Join(refs, ", "))
	}

	// --- Act ---
	_, err := Parse("laughs.yml", []byte(b.String()))

	// --- Assert ---
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
	assert.Contains(t, perr.Message, "too many nodes")
}

func TestParseYAML_InfinityRejected(t *testing.T) {
	for _, v := range []string{".inf", "-.Inf", "+.INF"} {
		t.Run(v, func(t *testing.T) {
			_, err := Parse("inf.yml", []byte("optim:\n  lr_initial: "+v+"\n"))

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, 2, perr.Line)
			assert.Contains(t, perr.Message, "infinity")
		})
	}
}

func TestParseString(t *testing.T) {
	doc, err := ParseString("optim:\n  batch_size: 5\n")

	require.NoError(t, err)
	assert.Equal(t, "<string>", doc.Filename)
	assert.Equal(t, cty.NumberIntVal(5), doc.Root.Lookup("optim.batch_size").Scalar)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.yml"))
	assert.Equal(t, FormatYAML, FormatOf("a.YAML"))
	assert.Equal(t, FormatYAML, FormatOf("noext"))
	assert.Equal(t, FormatJSON, FormatOf("a.json"))
	assert.Equal(t, FormatJSON, FormatOf("a.jsonc"))
	assert.Equal(t, FormatHCL, FormatOf("a.hcl"))
}

func TestDescribe(t *testing.T) {
	doc, err := ParseString("a: hello\nb: 3\nc: 0.5\nd: true\ne: null\nf: [1]\ng: {x: 1}\n")
	require.NoError(t, err)

	assert.Equal(t, `string "hello"`, doc.Root.Get("a").Describe())
	assert.Equal(t, "int 3", doc.Root.Get("b").Describe())
	assert.Equal(t, "float 0.5", doc.Root.Get("c").Describe())
	assert.Equal(t, "bool true", doc.Root.Get("d").Describe())
	assert.Equal(t, "null", doc.Root.Get("e").Describe())
	assert.Equal(t, "sequence", doc.Root.Get("f").Describe())
	assert.Equal(t, "mapping", doc.Root.Get("g").Describe())
}
