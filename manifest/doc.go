// Package manifest runs batches of generation jobs described in a YAML file.
// Each job names a kind (array, dlist or custom), an output path and the
// placeholder values for its template. Output paths may reference those
// values with single-brace {Name} tags, expanded with valyala/fasttemplate.
//
// Run executes the jobs in order and stops at the first failure, returning a
// report.Entry for every file it generated.
package manifest
