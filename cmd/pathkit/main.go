// Command pathkit is a small REPL-less CLI around the engine: load a YAML
// or JSON document, then run get/set/find operations against it from the
// command line. Flags are parsed by hand from os.Args, the way the
// teacher's own cmd entrypoints do, rather than via a flag/cobra
// dependency.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/pathgraph/pathkit"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}

	rootFile := ""
	args := os.Args[1:]
	var rest []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-root" && i+1 < len(args) {
			rootFile = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	if rootFile == "" || len(rest) < 2 {
		usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(rootFile)
	if err != nil {
		fatal(err)
	}
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		fatal(err)
	}
	root = convertMaps(root)

	engine := pathkit.New(pathkit.WithForce(true))

	switch cmd, path := rest[0], rest[1]; cmd {
	case "get":
		v, ok, err := engine.Get(root, path)
		if err != nil {
			fatal(err)
		}
		if !ok {
			printNotFound(path)
			return
		}
		printValue(v)

	case "set":
		if len(rest) < 3 {
			usage()
			os.Exit(2)
		}
		if err := engine.Set(root, path, rest[2]); err != nil {
			fatal(err)
		}
		printValue(root)

	case "find":
		matches := engine.Find(root, path, pathkit.All)
		for _, m := range matches {
			fmt.Printf("%s = %v\n", m.Path, m.Value)
		}

	default:
		usage()
		os.Exit(2)
	}
}

// convertMaps normalizes the map[interface{}]interface{} shape yaml.v3
// produces for untyped documents into map[string]any, which is what
// value.Native expects.
func convertMaps(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = convertMaps(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = convertMaps(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = convertMaps(val)
		}
		return t
	default:
		return v
	}
}

func printValue(v any) {
	out, err := yaml.Marshal(v)
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(out)
}

func printNotFound(path string) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("(not found: %s)\n", path)
		return
	}
	fmt.Println("null")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "pathkit:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pathkit -root <file.yaml> get <path>")
	fmt.Fprintln(os.Stderr, "       pathkit -root <file.yaml> set <path> <value>")
	fmt.Fprintln(os.Stderr, "       pathkit -root <file.yaml> find <target-value>")
}
