package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/tensil-lang/tensil/internal/config"
	"github.com/tensil-lang/tensil/internal/derive"
	"github.com/tensil-lang/tensil/internal/manifest"
	"github.com/tensil-lang/tensil/internal/pipeline"
	"github.com/tensil-lang/tensil/internal/prettyprinter"
)

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func useColor(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// isManifestFile checks if a file has a recognized manifest extension
func isManifestFile(path string) bool {
	for _, ext := range config.ManifestFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s derive <manifest%s>\n", os.Args[0], config.ManifestFileExt)
	fmt.Fprintln(os.Stderr, "\nDerives ParameterGroup conformances for the structs the manifest lists")
	fmt.Fprintln(os.Stderr, "and prints the synthesized declarations.")
}

func handleDerive(path string) {
	if !isManifestFile(path) {
		fmt.Fprintf(os.Stderr, "Warning: %s does not look like a manifest (expected %s)\n",
			path, strings.Join(config.ManifestFileExtensions, " or "))
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading manifest: %s\n", err)
		os.Exit(1)
	}

	initialContext := pipeline.NewPipelineContext(string(source))
	initialContext.FilePath = path

	processingPipeline := pipeline.New(
		&manifest.LoaderProcessor{},
		&derive.Processor{},
		&prettyprinter.RenderProcessor{},
	)

	finalContext := processingPipeline.Run(initialContext)

	if len(finalContext.Errors) > 0 {
		red, reset := "", ""
		if useColor(os.Stderr) {
			red, reset = colorRed, colorReset
		}
		fmt.Fprintln(os.Stderr, "Derivation failed with errors:")
		for _, err := range finalContext.Errors {
			fmt.Fprintf(os.Stderr, "- %s%s%s\n", red, err.Error(), reset)
		}
		os.Exit(1)
	}

	fmt.Printf("module %s: derived %d conformance(s)\n\n", finalContext.ModuleName, len(finalContext.Derived))
	fmt.Print(finalContext.Output)
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if os.Getenv("TENSIL_TEST_MODE") == "1" {
		config.IsTestMode = true
	}

	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-help" || os.Args[1] == "--help" {
		printUsage()
		if len(os.Args) < 2 {
			os.Exit(1)
		}
		return
	}

	switch os.Args[1] {
	case "derive":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		handleDerive(os.Args[2])
	default:
		// Bare manifest path is shorthand for "derive".
		handleDerive(os.Args[1])
	}
}
