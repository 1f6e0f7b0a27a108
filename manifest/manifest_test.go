package manifest_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/adtgen/generator"
	"github.com/byte4ever/adtgen/manifest"
	"github.com/byte4ever/adtgen/replacer"
)

// writeTemp creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(tb, os.MkdirAll(filepath.Dir(pa), 0o750))
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func readFile(tb testing.TB, path string) string {
	tb.Helper()

	got, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(tb, err)

	return string(got)
}

const fullManifest = `
template_dir: tpl
jobs:
  - kind: array
    output: array_{ArrayTypeName}.c
    element_type: int64_t
    array_type_name: ArrayInt64
  - kind: dlist
    output: list.c
    element_type: int
    list_node_type_name: NodeInt
    list_type_name: ListInt
  - kind: custom
    template: custom.txt
    output: custom.out
    replacements:
      - token: "@A"
        value: "X@B"
      - token: "@B"
        value: "Y"
`

func TestParse_full_manifest(t *testing.T) {
	t.Parallel()

	man, err := manifest.Parse([]byte(fullManifest))

	require.NoError(t, err)
	assert.Equal(t, "tpl", man.TemplateDir)
	require.Len(t, man.Jobs, 3)
	assert.Equal(t, manifest.KindArray, man.Jobs[0].Kind)
	assert.Equal(t, "NodeInt", man.Jobs[1].ListNodeTypeName)
	assert.Equal(
		t,
		replacer.Pairs{
			{Token: "@A", Value: "X@B"},
			{Token: "@B", Value: "Y"},
		},
		man.Jobs[2].Replacements,
	)
}

func TestParse_rejects_unknown_field(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte(`
jobs:
  - kind: array
    output: a.c
    element_type: int
    array_type_name: A
    elem_type: typo
`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing manifest")
}

func TestParse_validation_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name: "unknown kind",
			input: `
jobs:
  - kind: hashmap
    output: h.c
`,
			wantErr: manifest.ErrUnknownKind,
			wantMsg: "hashmap",
		},
		{
			name: "missing output",
			input: `
jobs:
  - kind: array
    element_type: int
    array_type_name: A
`,
			wantErr: manifest.ErrMissingField,
			wantMsg: "output",
		},
		{
			name: "dlist missing list name",
			input: `
jobs:
  - kind: dlist
    output: l.c
    element_type: int
    list_node_type_name: N
`,
			wantErr: manifest.ErrMissingField,
			wantMsg: "list_type_name",
		},
		{
			name: "custom missing template",
			input: `
jobs:
  - kind: custom
    output: c.txt
`,
			wantErr: manifest.ErrMissingField,
			wantMsg: "template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := manifest.Parse([]byte(tt.input))

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "job 0")
		})
	}
}

func TestJob_OutputPath(t *testing.T) {
	t.Parallel()

	jo := manifest.Job{
		Kind:          manifest.KindArray,
		Output:        "gen/array_{ElementType}_{Unknown}.c",
		ElementType:   "int64_t",
		ArrayTypeName: "ArrayInt64",
	}

	assert.Equal(
		t,
		filepath.Join("base", "gen", "array_int64_t_{Unknown}.c"),
		jo.OutputPath("base"),
	)
}

func TestJob_OutputPath_absolute(t *testing.T) {
	t.Parallel()

	jo := manifest.Job{
		Kind:   manifest.KindCustom,
		Output: "/abs/{Name}.txt",
		Replacements: replacer.Pairs{
			{Token: "@Name", Value: "thing"},
		},
	}

	assert.Equal(t, "/abs/thing.txt", jo.OutputPath("base"))
}

func TestJob_TemplatePath(t *testing.T) {
	t.Parallel()

	ge := generator.Generator{TemplateDir: "tpl"}

	arr := manifest.Job{Kind: manifest.KindArray}
	assert.Equal(
		t,
		filepath.Join("tpl", generator.ArrayTemplate),
		arr.TemplatePath(&ge, "base"),
	)

	list := manifest.Job{Kind: manifest.KindDList}
	assert.Equal(
		t,
		filepath.Join("tpl", generator.DoublyLinkedListTemplate),
		list.TemplatePath(&ge, "base"),
	)

	override := manifest.Job{
		Kind:     manifest.KindArray,
		Template: "mine.txt",
	}
	assert.Equal(
		t,
		filepath.Join("base", "mine.txt"),
		override.TemplatePath(&ge, "base"),
	)
}

func TestRun_generates_all_jobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemp(
		t, dir, filepath.Join("tpl", generator.ArrayTemplate),
		"typedef @ElementType @ArrayTypeName;",
	)
	writeTemp(
		t, dir,
		filepath.Join("tpl", generator.DoublyLinkedListTemplate),
		"@ListNodeTypeName* @ListTypeName;",
	)
	writeTemp(t, dir, "custom.txt", "@A@B")

	man, err := manifest.Parse([]byte(fullManifest))
	require.NoError(t, err)

	entries, err := manifest.Run(man, dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	arrOut := filepath.Join(dir, "array_ArrayInt64.c")
	assert.Equal(t, "typedef int64_t ArrayInt64;", readFile(t, arrOut))
	assert.Equal(
		t,
		"NodeInt* ListInt;",
		readFile(t, filepath.Join(dir, "list.c")),
	)
	assert.Equal(
		t,
		"XYY",
		readFile(t, filepath.Join(dir, "custom.out")),
	)

	assert.Equal(t, manifest.KindArray, entries[0].Kind)
	assert.Equal(t, arrOut, entries[0].Output)
	assert.Equal(
		t,
		filepath.Join(dir, "tpl", generator.ArrayTemplate),
		entries[0].Template,
	)
	assert.Equal(t, int64(len("NodeInt* ListInt;")), entries[1].Size)
	assert.Len(t, entries[2].SHA256, 64)
}

func TestRun_stops_at_first_failure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemp(t, dir, generator.ArrayTemplate, "@ArrayTypeName")

	man := &manifest.Manifest{
		Jobs: []manifest.Job{
			{
				Kind:          manifest.KindArray,
				Output:        "first.c",
				ElementType:   "int",
				ArrayTypeName: "First",
			},
			{
				Kind:             manifest.KindDList,
				Output:           "second.c",
				ElementType:      "int",
				ListNodeTypeName: "N",
				ListTypeName:     "L",
			},
			{
				Kind:          manifest.KindArray,
				Output:        "third.c",
				ElementType:   "int",
				ArrayTypeName: "Third",
			},
		},
	}

	entries, err := manifest.Run(man, dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "job 1 (dlist)")
	require.Len(t, entries, 1)
	assert.Equal(t, "First", readFile(t, filepath.Join(dir, "first.c")))
	assert.NoFileExists(t, filepath.Join(dir, "second.c"))
	assert.NoFileExists(t, filepath.Join(dir, "third.c"))
}

func TestLoad_missing_file(t *testing.T) {
	t.Parallel()

	_, err := manifest.Load("/nonexistent/adtgen.yaml")

	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "loading manifest")
}

func TestLoad_reads_file(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := writeTemp(t, dir, "adtgen.yaml", fullManifest)

	man, err := manifest.Load(pa)

	require.NoError(t, err)
	assert.Len(t, man.Jobs, 3)
}

func TestRun_custom_output_is_template(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tplPath := writeTemp(t, dir, "custom.txt", "@A")

	man := &manifest.Manifest{
		Jobs: []manifest.Job{{
			Kind:     manifest.KindCustom,
			Template: "custom.txt",
			Output:   "custom.txt",
			Replacements: replacer.Pairs{
				{Token: "@A", Value: "b"},
			},
		}},
	}

	entries, err := manifest.Run(man, dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrSameFile)
	assert.Empty(t, entries)
	assert.Equal(t, "@A", readFile(t, tplPath))
}
