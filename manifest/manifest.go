package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/adtgen/generator"
	"github.com/byte4ever/adtgen/replacer"
	"github.com/byte4ever/adtgen/report"
)

// Job kinds.
const (
	KindArray  = "array"
	KindDList  = "dlist"
	KindCustom = "custom"
)

var (
	// ErrUnknownKind is returned for a job whose kind is
	// not array, dlist or custom.
	ErrUnknownKind = errors.New("unknown job kind")

	// ErrMissingField is returned for a job lacking a
	// field its kind requires.
	ErrMissingField = errors.New("missing required field")
)

// Manifest is the decoded form of a manifest file.
type Manifest struct {
	// TemplateDir holds template_array.txt and
	// template_doubly_linked_list.txt. Relative paths are
	// resolved against the manifest's directory.
	TemplateDir string `yaml:"template_dir"`

	Jobs []Job `yaml:"jobs"`
}

// Job is one generated file.
type Job struct {
	Kind   string `yaml:"kind"`
	Output string `yaml:"output"`

	// Template overrides the bundled template for array
	// and dlist jobs. Required for custom jobs.
	Template string `yaml:"template"`

	ElementType      string `yaml:"element_type"`
	ArrayTypeName    string `yaml:"array_type_name"`
	ListNodeTypeName string `yaml:"list_node_type_name"`
	ListTypeName     string `yaml:"list_type_name"`

	// Replacements are the ordered pairs of a custom job.
	Replacements replacer.Pairs `yaml:"replacements"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	const errCtx = "loading manifest"

	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	man, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return man, nil
}

// Parse decodes and validates a manifest. Unknown fields
// are rejected.
func Parse(data []byte) (*Manifest, error) {
	const errCtx = "parsing manifest"

	var man Manifest

	if err := yaml.UnmarshalWithOptions(
		data, &man, yaml.DisallowUnknownField(),
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := man.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &man, nil
}

// Validate checks that every job has an output and the
// fields required by its kind.
func (ma *Manifest) Validate() error {
	for idx := range ma.Jobs {
		if err := ma.Jobs[idx].validate(); err != nil {
			return fmt.Errorf("job %d: %w", idx, err)
		}
	}

	return nil
}

type field struct {
	name  string
	value string
}

func (jo *Job) validate() error {
	required := []field{{"output", jo.Output}}

	switch jo.Kind {
	case KindArray:
		required = append(required,
			field{"element_type", jo.ElementType},
			field{"array_type_name", jo.ArrayTypeName},
		)
	case KindDList:
		required = append(required,
			field{"element_type", jo.ElementType},
			field{"list_node_type_name", jo.ListNodeTypeName},
			field{"list_type_name", jo.ListTypeName},
		)
	case KindCustom:
		required = append(required, field{"template", jo.Template})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, jo.Kind)
	}

	for _, fi := range required {
		if fi.value == "" {
			return fmt.Errorf(
				"%s job: %w: %s",
				jo.Kind, ErrMissingField, fi.name,
			)
		}
	}

	return nil
}

// Pairs returns the ordered replacements for the job.
func (jo *Job) Pairs() replacer.Pairs {
	switch jo.Kind {
	case KindArray:
		return generator.ArrayPairs(
			jo.ElementType, jo.ArrayTypeName,
		)
	case KindDList:
		return generator.DoublyLinkedListPairs(
			jo.ElementType, jo.ListNodeTypeName, jo.ListTypeName,
		)
	default:
		return jo.Replacements
	}
}

// OutputPath expands {Name} tags in the job's output
// against its pairs and resolves the result against
// baseDir. Unknown tags are kept as-is.
func (jo *Job) OutputPath(baseDir string) string {
	out := fasttemplate.ExecuteStringStd(
		jo.Output, "{", "}", jo.Pairs().Context(),
	)

	return resolve(baseDir, out)
}

// TemplatePath returns the template the job reads.
func (jo *Job) TemplatePath(
	ge *generator.Generator,
	baseDir string,
) string {
	if jo.Template != "" {
		return resolve(baseDir, jo.Template)
	}

	switch jo.Kind {
	case KindArray:
		return ge.TemplatePath(generator.ArrayTemplate)
	case KindDList:
		return ge.TemplatePath(generator.DoublyLinkedListTemplate)
	default:
		return ""
	}
}

// Run generates every job of man in order. Relative paths
// are resolved against baseDir. It stops at the first
// failing job and returns the entries produced so far.
func Run(man *Manifest, baseDir string) ([]report.Entry, error) {
	const errCtx = "running manifest"

	ge := generator.Generator{
		TemplateDir: resolve(baseDir, man.TemplateDir),
	}

	entries := make([]report.Entry, 0, len(man.Jobs))

	for idx := range man.Jobs {
		jo := &man.Jobs[idx]

		entry, err := runJob(&ge, jo, baseDir)
		if err != nil {
			return entries, fmt.Errorf(
				"%s: job %d (%s): %w",
				errCtx, idx, jo.Kind, err,
			)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func runJob(
	ge *generator.Generator,
	jo *Job,
	baseDir string,
) (report.Entry, error) {
	out := jo.OutputPath(baseDir)
	tpl := jo.TemplatePath(ge, baseDir)

	var err error

	switch {
	case jo.Kind == KindArray && jo.Template == "":
		err = ge.CreateArray(
			out, jo.ElementType, jo.ArrayTypeName,
		)
	case jo.Kind == KindDList && jo.Template == "":
		err = ge.CreateDoublyLinkedList(
			out, jo.ElementType, jo.ListNodeTypeName, jo.ListTypeName,
		)
	default:
		err = ge.Generate(tpl, out, jo.Pairs())
	}

	if err != nil {
		return report.Entry{}, err
	}

	return report.NewEntry(jo.Kind, tpl, out)
}

// resolve joins relative paths onto baseDir. An empty
// path resolves to baseDir itself.
func resolve(baseDir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(baseDir, path)
}
