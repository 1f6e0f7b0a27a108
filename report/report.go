// Package report describes generated files as JSON so a
// build can check which outputs a run produced.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// Entry records one generated file.
type Entry struct {
	Kind     string `json:"kind"`
	Template string `json:"template"`
	Output   string `json:"output"`
	SHA256   string `json:"sha256"`
	Size     int64  `json:"size"`
}

// NewEntry builds an Entry for the file at output,
// filling in its SHA256 hex digest and size.
func NewEntry(
	kind string,
	template string,
	output string,
) (Entry, error) {
	const errCtx = "building report entry"

	sum, size, err := digest(output)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return Entry{
		Kind:     kind,
		Template: template,
		Output:   output,
		SHA256:   sum,
		Size:     size,
	}, nil
}

// Write encodes entries as an indented JSON array. A nil
// slice is written as "[]".
func Write(w io.Writer, entries []Entry) error {
	const errCtx = "writing report"

	if entries == nil {
		entries = []Entry{}
	}

	buf, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	buf = append(buf, '\n')

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func digest(path string) (result string, size int64, retErr error) {
	const errCtx = "calculating digest"

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	ha := sha256.New()

	size, err = io.Copy(ha, fi)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), size, nil
}
