// Package main analyzes a single document from the command line and writes
// the report as JSON plus a CSV of the strongest bridge characters.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"syscall"

	"github.com/charnet/core/internal/config"
	"github.com/charnet/core/internal/extract"
	"github.com/charnet/core/internal/logger"
	"github.com/charnet/core/internal/logger/console"
	"github.com/charnet/core/internal/models"
	"github.com/charnet/core/internal/ner"
	"github.com/charnet/core/internal/pipeline"
)

type cliOptions struct {
	input          string
	mentions       string
	documentLength int
	outDir         string
	configPath     string
	debug          bool
	overrides      config.Overrides
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &cliOptions{}
	fs.StringVar(&opts.input, "in", "", "document to analyze (.txt, .html, .pdf, .epub)")
	fs.StringVar(&opts.mentions, "mentions", "", "JSON lines mention stream from an external recognizer, - for stdin")
	fs.IntVar(&opts.documentLength, "document-length", 0, "document length for mentions that carry none")
	fs.StringVar(&opts.outDir, "out", ".", "output directory")
	fs.StringVar(&opts.configPath, "config", "", "config file (yaml, json or toml)")
	fs.BoolVar(&opts.debug, "debug", false, "log stage timings")

	topN := fs.Int("top-n", 0, "characters kept in the graph")
	maxPasses := fs.Int("max-passes", 0, "Louvain aggregation level cap")
	resolution := fs.Float64("resolution", 0, "modularity resolution")
	resolverName := fs.String("resolver", "", "name resolver: exact, edit-distance or alias")
	stripTitles := fs.Bool("strip-titles", false, "drop honorifics before matching names")
	weighted := fs.Bool("weighted", false, "weighted shortest paths for betweenness")
	bridges := fs.Int("bridges", 0, "number of bridge characters to report")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if (opts.input == "") == (opts.mentions == "") {
		return nil, errors.New("exactly one of -in or -mentions is required")
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "top-n":
			opts.overrides.TopN = topN
		case "max-passes":
			opts.overrides.MaxLouvainPasses = maxPasses
		case "resolution":
			opts.overrides.Resolution = resolution
		case "resolver":
			opts.overrides.Resolver = resolverName
		case "strip-titles":
			opts.overrides.StripTitles = stripTitles
		case "weighted":
			opts.overrides.Weighted = weighted
		case "bridges":
			opts.overrides.BridgeCount = bridges
		}
	})

	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stderr io.Writer) error {
	cli, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  cli.debug,
		Prefix: "analyze",
		Output: stderr,
	}))

	settings, err := config.Load(cli.configPath)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cli.overrides.Apply(settings.Analysis))
	if err != nil {
		return err
	}

	var (
		mentions iter.Seq[models.Mention]
		doc      *extract.Document
		stream   *ner.Stream
	)
	if cli.input != "" {
		doc, err = readDocument(ctx, cli.input)
		if err != nil {
			return err
		}
		logger.Info("Document extracted", "path", cli.input, "format", doc.Format, "length", doc.Length)
		mentions = ner.NewHeuristic(p.Options.MaxNameWords).Recognize(ctx, doc.Text)
	} else {
		r := stdin
		if cli.mentions != "-" {
			f, err := os.Open(cli.mentions)
			if err != nil {
				return fmt.Errorf("failed to open mentions: %w", err)
			}
			defer f.Close()
			r = f
		}
		stream = ner.NewStream(r, cli.documentLength)
		mentions = stream.All()
	}

	report, err := p.Execute(ctx, mentions)
	if err != nil {
		return err
	}
	if stream != nil {
		if err := stream.Err(); err != nil {
			logger.Error("Mention stream aborted", "decoded", stream.Decoded(), "error", err)
			return err
		}
		logger.Info("Mentions decoded", "source", cli.mentions, "count", stream.Decoded())
	}
	if doc != nil {
		report.Title = doc.Title
		report.DocumentLength = doc.Length
	}

	paths, err := writeOutputs(cli.outDir, report)
	if err != nil {
		return err
	}

	logger.Info("Analysis written",
		"run", report.RunID,
		"characters", len(report.Characters),
		"communities", len(report.Partition.Communities),
		"modularity", report.Partition.Modularity,
		"report", paths.report,
		"bridges", paths.bridges,
	)
	return nil
}

func readDocument(ctx context.Context, path string) (*extract.Document, error) {
	extractor, err := extract.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	return extractor.Extract(ctx, f)
}

func main() {
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "analyze:", err)
		stop()
		os.Exit(1)
	}
}
