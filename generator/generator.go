package generator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/byte4ever/adtgen/replacer"
)

// ErrSameFile is returned when the target of a generation
// is the template itself.
var ErrSameFile = errors.New("target is the template file")

// Template resource names.
const (
	ArrayTemplate            = "template_array.txt"
	DoublyLinkedListTemplate = "template_doubly_linked_list.txt"
)

// Placeholder tokens understood by the bundled templates.
const (
	ElementType      = "@ElementType"
	ArrayTypeName    = "@ArrayTypeName"
	ListNodeTypeName = "@ListNodeTypeName"
	ListTypeName     = "@ListTypeName"
)

// Generator copies templates from TemplateDir and fills
// in their placeholders. The zero value looks for
// templates in the working directory.
type Generator struct {
	TemplateDir string
}

// ArrayPairs returns the ordered replacements for the
// array template.
func ArrayPairs(
	elementType string,
	arrayTypeName string,
) replacer.Pairs {
	return replacer.Pairs{
		{Token: ElementType, Value: elementType},
		{Token: ArrayTypeName, Value: arrayTypeName},
	}
}

// DoublyLinkedListPairs returns the ordered replacements
// for the doubly linked list template.
func DoublyLinkedListPairs(
	elementType string,
	listNodeTypeName string,
	listTypeName string,
) replacer.Pairs {
	return replacer.Pairs{
		{Token: ElementType, Value: elementType},
		{Token: ListNodeTypeName, Value: listNodeTypeName},
		{Token: ListTypeName, Value: listTypeName},
	}
}

// TemplatePath returns the location of the named
// template resource.
func (ge *Generator) TemplatePath(name string) string {
	return filepath.Join(ge.TemplateDir, name)
}

// CreateArray writes the array template to target with
// @ElementType and @ArrayTypeName substituted.
func (ge *Generator) CreateArray(
	target string,
	elementType string,
	arrayTypeName string,
) error {
	const errCtx = "creating array"

	if err := ge.Generate(
		ge.TemplatePath(ArrayTemplate),
		target,
		ArrayPairs(elementType, arrayTypeName),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// CreateDoublyLinkedList writes the doubly linked list
// template to target with @ElementType,
// @ListNodeTypeName and @ListTypeName substituted.
func (ge *Generator) CreateDoublyLinkedList(
	target string,
	elementType string,
	listNodeTypeName string,
	listTypeName string,
) error {
	const errCtx = "creating doubly linked list"

	if err := ge.Generate(
		ge.TemplatePath(DoublyLinkedListTemplate),
		target,
		DoublyLinkedListPairs(
			elementType, listNodeTypeName, listTypeName,
		),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Generate copies tplPath over target and applies pairs
// to the copy. A failed substitution leaves the copied,
// unsubstituted file in place.
func (ge *Generator) Generate(
	tplPath string,
	target string,
	pairs replacer.Pairs,
) error {
	const errCtx = "generating"

	slog.Debug(
		"generating",
		"template", tplPath,
		"target", target,
	)

	if err := copyFile(tplPath, target); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := replacer.ApplyFile(target, pairs); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info("generated", "target", target)

	return nil
}

// CreateArray is Generator.CreateArray with templates
// taken from the working directory.
func CreateArray(
	target string,
	elementType string,
	arrayTypeName string,
) error {
	var ge Generator

	return ge.CreateArray(target, elementType, arrayTypeName)
}

// CreateDoublyLinkedList is
// Generator.CreateDoublyLinkedList with templates taken
// from the working directory.
func CreateDoublyLinkedList(
	target string,
	elementType string,
	listNodeTypeName string,
	listTypeName string,
) error {
	var ge Generator

	return ge.CreateDoublyLinkedList(
		target, elementType, listNodeTypeName, listTypeName,
	)
}

// copyFile copies src over dst. The source is opened
// first so a missing template never creates dst, and dst
// is refused when it is src under another name.
func copyFile(src string, dst string) (retErr error) {
	const errCtx = "copying template"

	in, err := os.Open(src) //nolint:gosec // path is caller-provided
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer in.Close() //nolint:errcheck // read-only

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if dstInfo, err := os.Stat(dst); err == nil &&
		os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%s: %s: %w", errCtx, dst, ErrSameFile)
	}

	out, err := os.OpenFile( //nolint:gosec // path is caller-provided
		dst,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		0o666,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
