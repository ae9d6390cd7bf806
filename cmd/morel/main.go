// Command morel is a thin batch-script driver for internal/session: it
// reads a `.sml`-style script (or stdin, with no path argument) and
// feeds its declarations to a session.Session one unit at a time,
// printing each unit's CLASSIC/TABULAR result line by line. Grounded on
// aretext's cmd/aretext/main.go: package-level flag.* variables parsed
// once in main, a dedicated exitWithError rather than panicking.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/morel-lang/morel/internal/session"
)

var (
	configPath = flag.String("config", "", "path to a morel.yaml properties file (default: none, use built-in defaults)")
	outputMode = flag.String("output", "", "override the output property (CLASSIC or TABULAR)")
	verbose    = flag.Bool("v", false, "enable trace logging to stderr")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if err := run(); err != nil {
		exitWithError(err)
	}
}

func run() error {
	logger := hclog.New(&hclog.LoggerOptions{Name: "morel", Level: hclog.Off, Output: os.Stderr})
	if *verbose {
		logger = hclog.New(&hclog.LoggerOptions{Name: "morel", Level: hclog.Trace, Output: os.Stderr})
	}

	s := session.New(logger)

	if *configPath != "" {
		props, err := session.LoadProperties(*configPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", *configPath, err)
		}

		s.ApplyProperties(props)
	}

	if *outputMode != "" {
		props := s.PropertiesSnapshot()
		props.Output = *outputMode
		s.ApplyProperties(props)
	}

	file := "<stdin>"
	src := os.Stdin

	if path := flag.Arg(0); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		file = path
		src = f
	}

	exitCode := 0

	for _, r := range s.Execute(file, src) {
		switch r.Kind {
		case session.ResultError:
			fmt.Fprintln(os.Stderr, r.Text)

			exitCode = 1
		default:
			fmt.Println(r.Text)
		}
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}

	return nil
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [options...] [script]\n", os.Args[0])
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
