// Command compgraph runs one of the bundled algorithm graphs against
// file input and writes the resulting rows as JSON lines to stdout.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fdrose/compgraph/internal/algorithms"
	"github.com/fdrose/compgraph/internal/clog"
	"github.com/fdrose/compgraph/internal/graph"
	"github.com/fdrose/compgraph/internal/ops"
)

// main is the CLI entry point. It dispatches on the first argument
// (the algorithm name) and delegates to the matching run* function.
func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var g *graph.Graph
	var err error

	switch command {
	case "wordcount":
		g, err = runWordCount(args)
	case "invertedindex":
		g, err = runInvertedIndex(args)
	case "pmi":
		g, err = runPMI(args)
	case "yandexmaps":
		g, err = runYandexMaps(args)
	default:
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		clog.Error("graph construction failed", clog.Fields{"command": command, "error": err.Error()})
		fmt.Fprintf(os.Stderr, "compgraph: %v\n", err)
		os.Exit(1)
	}

	if err := emit(g); err != nil {
		clog.Error("graph run failed", clog.Fields{"command": command, "error": err.Error()})
		fmt.Fprintf(os.Stderr, "compgraph: %v\n", err)
		os.Exit(1)
	}
}

// printHelp prints CLI usage to stdout.
func printHelp() {
	fmt.Println("Usage: compgraph <command> [args]")
	fmt.Println("  wordcount      <input.jsonl> <text_column>")
	fmt.Println("  invertedindex  <input.jsonl> <doc_column> <text_column>")
	fmt.Println("  pmi            <input.jsonl> <doc_column> <text_column>")
	fmt.Println("  yandexmaps     <time.jsonl> <length.jsonl>")
}

func runWordCount(args []string) (*graph.Graph, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("wordcount: usage: wordcount <input.jsonl> <text_column>")
	}
	return algorithms.WordCountGraphFile("input", args[0], algorithms.JSONParser, args[1], "count"), nil
}

func runInvertedIndex(args []string) (*graph.Graph, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("invertedindex: usage: invertedindex <input.jsonl> <doc_column> <text_column>")
	}
	return algorithms.InvertedIndexGraphFile("input", args[0], algorithms.JSONParser, args[1], args[2], "tf_idf"), nil
}

func runPMI(args []string) (*graph.Graph, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("pmi: usage: pmi <input.jsonl> <doc_column> <text_column>")
	}
	return algorithms.PMIGraphFile("input", args[0], algorithms.JSONParser, args[1], args[2], "pmi"), nil
}

func runYandexMaps(args []string) (*graph.Graph, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("yandexmaps: usage: yandexmaps <time.jsonl> <length.jsonl>")
	}
	return algorithms.YandexMapsGraphFile(
		"time", args[0], algorithms.JSONParser,
		"length", args[1], algorithms.JSONParser,
		"enter_time", "leave_time", "edge_id", "start", "end",
		"weekday", "hour", "speed",
	), nil
}

// emit runs g against an empty source table (every input in these
// graphs is wired to a file, not a named source) and writes each
// resulting row as a JSON line to stdout.
func emit(g *graph.Graph) error {
	out := g.Run(ops.Sources{})
	defer out.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	enc := json.NewEncoder(w)
	for {
		row, ok, err := out.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("compgraph: encoding result row: %w", err)
		}
	}
}
