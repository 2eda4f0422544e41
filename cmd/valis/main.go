package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"

	valis "github.com/valis/valis"
	"github.com/valis/valis/i18n"
	js "github.com/valis/valis/jsonschema"
	"github.com/valis/valis/schema"
	"github.com/valis/valis/source"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	case "export-jsonschema":
		exportCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "valis CLI\n\nUsage:\n  valis check -schema schema.(json|yaml) -input data.(json|yaml) [-strict] [-lang en|ja]\n  valis export-jsonschema -schema schema.(json|yaml)")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath, inputPath, lang string
	var strict bool
	fs.StringVar(&schemaPath, "schema", "", "schema document")
	fs.StringVar(&inputPath, "input", "", "input document to validate")
	fs.BoolVar(&strict, "strict", false, "force strict extraction for the whole tree")
	fs.StringVar(&lang, "lang", "en", "message language (en/ja)")
	_ = fs.Parse(args)
	if schemaPath == "" || inputPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	i18n.SetLanguage(lang)

	v := compileSchema(schemaPath, &schema.Config{Strict: strict})
	in := loadInput(inputPath)

	out, err := v.Validate(in, nil)
	if err != nil {
		le, ok := valis.AsLineErrors(err)
		if !ok {
			fatalf("internal: %v", err)
		}
		for _, e := range le {
			fmt.Printf("%s at %s: %s%s\n", e.Kind, e.Loc.Pointer(), i18n.T(e.Kind, nil), renderCtx(e.Ctx))
		}
		os.Exit(1)
	}
	b, err := gojson.MarshalIndent(out, "", "  ")
	if err != nil {
		fatalf("rendering output: %v", err)
	}
	fmt.Println(string(b))
}

func exportCmd(args []string) {
	fs := flag.NewFlagSet("export-jsonschema", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema document")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	v := compileSchema(schemaPath, nil)
	out, err := js.For(v)
	if err != nil {
		fatalf("projecting schema: %v", err)
	}
	b, err := gojson.MarshalIndent(out, "", "  ")
	if err != nil {
		fatalf("rendering schema: %v", err)
	}
	fmt.Println(string(b))
}

func compileSchema(path string, cfg *schema.Config) valis.Validator {
	b, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	var node schema.Node
	if isYAML(path) {
		node, err = schema.ParseYAML(b)
	} else {
		node, err = schema.ParseJSON(b)
	}
	if err != nil {
		fatalf("parsing schema: %v", err)
	}
	v, err := schema.Build(node, cfg)
	if err != nil {
		fatalf("compiling schema: %v", err)
	}
	return v
}

func loadInput(path string) valis.Input {
	b, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading input: %v", err)
	}
	var in valis.Input
	if isYAML(path) {
		in, err = source.YAMLBytes(b)
	} else {
		in, err = source.JSONBytes(b)
	}
	if err != nil {
		fatalf("decoding input: %v", err)
	}
	return in
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func renderCtx(ctx map[string]any) string {
	if len(ctx) == 0 {
		return ""
	}
	b, err := gojson.Marshal(ctx)
	if err != nil {
		return ""
	}
	return " " + string(b)
}
