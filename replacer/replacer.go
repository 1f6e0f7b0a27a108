package replacer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 is returned when a file handed to
	// ApplyFile is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

	// ErrMalformedPair is returned by ParsePair when the
	// input has no "=" separator.
	ErrMalformedPair = errors.New("replacement must be TOKEN=VALUE")
)

// Pair substitutes every occurrence of Token with Value.
type Pair struct {
	Token string `yaml:"token" json:"token"`
	Value string `yaml:"value" json:"value"`
}

// Pairs is an ordered replacement mapping.
type Pairs []Pair

// ParsePair splits s on its first "=" into a Pair.
func ParsePair(s string) (Pair, error) {
	const errCtx = "parsing replacement"

	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return Pair{}, fmt.Errorf(
			"%s: %w, got %q", errCtx, ErrMalformedPair, s,
		)
	}

	return Pair{Token: parts[0], Value: parts[1]}, nil
}

// Context returns the pairs as a fasttemplate context.
// Keys are the tokens with one leading "@" removed, so
// "@ElementType" is reachable as {ElementType}. A later
// pair with the same key wins.
func (ps Pairs) Context() map[string]interface{} {
	ctx := make(map[string]interface{}, len(ps))

	for _, pa := range ps {
		ctx[strings.TrimPrefix(pa.Token, "@")] = pa.Value
	}

	return ctx
}

// Apply replaces every non-overlapping occurrence of each
// token, pair by pair, in order. Each pass works on the
// output of the previous one.
func Apply(content string, pairs Pairs) string {
	for _, pa := range pairs {
		content = strings.ReplaceAll(content, pa.Token, pa.Value)
	}

	return content
}

// ApplyFile rewrites the file at path with pairs applied.
// The file must already exist; it is never created. Tokens
// absent from the file are ignored.
func ApplyFile(path string, pairs Pairs) error {
	const errCtx = "applying replacements"

	content, err := os.ReadFile(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if !utf8.Valid(content) {
		return fmt.Errorf(
			"%s: %s: %w", errCtx, path, ErrInvalidUTF8,
		)
	}

	result := Apply(string(content), pairs)

	if err := overwrite(path, result); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug(
		"replaced placeholders",
		"path", path,
		"pairs", len(pairs),
	)

	return nil
}

// overwrite truncates the existing file at path and
// writes content to it. Unlike os.WriteFile it does not
// create a missing file.
func overwrite(path string, content string) (retErr error) {
	const errCtx = "overwriting file"

	fi, err := os.OpenFile( //nolint:gosec // path is caller-provided
		path,
		os.O_WRONLY|os.O_TRUNC,
		0,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	if _, err := io.WriteString(fi, content); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
