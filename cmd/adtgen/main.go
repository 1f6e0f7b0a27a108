// Binary adtgen instantiates container templates by
// substituting placeholder tokens.
//
// Usage:
//
//	adtgen [-v] array    -out FILE -element TYPE -name NAME [-template_dir DIR]
//	adtgen [-v] dlist    -out FILE -element TYPE -node NAME -list NAME [-template_dir DIR]
//	adtgen [-v] custom   -template FILE -out FILE [-replace TOKEN=VALUE ...]
//	adtgen [-v] manifest -file FILE [-report FILE|-]
//	adtgen [-v] example  [-template_dir DIR]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/byte4ever/adtgen/generator"
	"github.com/byte4ever/adtgen/manifest"
	"github.com/byte4ever/adtgen/replacer"
	"github.com/byte4ever/adtgen/report"
)

var errUsage = errors.New(
	"usage: adtgen [-v] array|dlist|custom|manifest|example [flags]",
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run(args []string, stdout io.Writer) error {
	const errCtx = "adtgen"

	fs := flag.NewFlagSet("adtgen", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if fs.NArg() == 0 {
		return fmt.Errorf("%s: %w", errCtx, errUsage)
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error

	switch cmd {
	case "array":
		err = runArray(rest)
	case "dlist":
		err = runDList(rest)
	case "custom":
		err = runCustom(rest)
	case "manifest":
		err = runManifest(rest, stdout)
	case "example":
		err = runExample(rest)
	default:
		err = fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func runArray(args []string) error {
	var (
		out         string
		element     string
		name        string
		templateDir string
	)

	fs := flag.NewFlagSet("array", flag.ContinueOnError)

	fs.StringVar(&out, "out", "", "output file path")
	fs.StringVar(&element, "element", "", "element type (@ElementType)")
	fs.StringVar(&name, "name", "", "array type name (@ArrayTypeName)")
	fs.StringVar(
		&templateDir, "template_dir", "",
		"directory holding "+generator.ArrayTemplate,
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if out == "" {
		return errors.New("array: -out is required")
	}

	ge := generator.Generator{TemplateDir: templateDir}

	return ge.CreateArray(out, element, name)
}

func runDList(args []string) error {
	var (
		out         string
		element     string
		node        string
		list        string
		templateDir string
	)

	fs := flag.NewFlagSet("dlist", flag.ContinueOnError)

	fs.StringVar(&out, "out", "", "output file path")
	fs.StringVar(&element, "element", "", "element type (@ElementType)")
	fs.StringVar(&node, "node", "", "node type name (@ListNodeTypeName)")
	fs.StringVar(&list, "list", "", "list type name (@ListTypeName)")
	fs.StringVar(
		&templateDir, "template_dir", "",
		"directory holding "+generator.DoublyLinkedListTemplate,
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if out == "" {
		return errors.New("dlist: -out is required")
	}

	ge := generator.Generator{TemplateDir: templateDir}

	return ge.CreateDoublyLinkedList(out, element, node, list)
}

func runCustom(args []string) error {
	var (
		tpl      string
		out      string
		replaces arrayFlags
	)

	fs := flag.NewFlagSet("custom", flag.ContinueOnError)

	fs.StringVar(&tpl, "template", "", "template file path")
	fs.StringVar(&out, "out", "", "output file path")
	fs.Var(
		&replaces, "replace",
		"replacement in TOKEN=VALUE format (repeatable, applied in order)",
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if tpl == "" || out == "" {
		return errors.New("custom: -template and -out are required")
	}

	pairs := make(replacer.Pairs, 0, len(replaces))

	for _, re := range replaces {
		pa, err := replacer.ParsePair(re)
		if err != nil {
			return err
		}

		pairs = append(pairs, pa)
	}

	var ge generator.Generator

	return ge.Generate(tpl, out, pairs)
}

func runManifest(args []string, stdout io.Writer) error {
	var (
		file       string
		reportPath string
	)

	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)

	fs.StringVar(&file, "file", "adtgen.yaml", "manifest file path")
	fs.StringVar(
		&reportPath, "report", "",
		"write a JSON report to this path, relative to the"+
			" manifest's directory (- for stdout)",
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	man, err := manifest.Load(file)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(file)

	entries, err := manifest.Run(man, baseDir)
	if err != nil {
		return err
	}

	slog.Info("manifest done", "generated", len(entries))

	switch reportPath {
	case "":
		return nil
	case "-":
		return report.Write(stdout, entries)
	}

	if !filepath.IsAbs(reportPath) {
		reportPath = filepath.Join(baseDir, reportPath)
	}

	fo, err := os.Create(reportPath) //nolint:gosec // path from CLI flag
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}

	defer fo.Close() //nolint:errcheck // best-effort close

	return report.Write(fo, entries)
}

// runExample generates the reference int64_t array into
// the working directory.
func runExample(args []string) error {
	var templateDir string

	fs := flag.NewFlagSet("example", flag.ContinueOnError)

	fs.StringVar(
		&templateDir, "template_dir", "",
		"directory holding "+generator.ArrayTemplate,
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	ge := generator.Generator{TemplateDir: templateDir}

	return ge.CreateArray("array_int64.c", "int64_t", "ArrayInt64")
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
