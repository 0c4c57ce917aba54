package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/syssam/relmap"
	"github.com/syssam/relmap/compiler/load"
	"github.com/syssam/relmap/compiler/meta"
)

// run parses args, resolves every schema path and writes the exports to
// stdout, or to the configured output file.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, paths, err := parseArgs(args)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	w := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	a, err := newApp(cfg, logger, w)
	if err != nil {
		return err
	}
	defer a.enc.Close()
	return a.run(ctx, paths)
}

// parseArgs reads flags and configuration. Flags given on the command
// line win over the configuration file and the environment.
func parseArgs(args []string) (*Config, []string, error) {
	fs := flag.NewFlagSet("relmap", flag.ContinueOnError)
	var (
		configPath    = fs.String("config", "", "YAML configuration file")
		instruction   = fs.String("instruction", "", "passes to run: default, identity, opposite, all or identity|opposite")
		format        = fs.String("format", "", "output format: json, yaml or msgpack")
		constraints   = fs.Bool("constraints", true, "include multiplicity constraints")
		languageTable = fs.String("language-table", "", "target table of language select columns")
		workers       = fs.Int("workers", 0, "number of schemas resolved concurrently")
		logLevel      = fs.String("log-level", "", "log level: debug, info, warn or error")
		watch         = fs.Bool("watch", false, "re-resolve schemas when they change")
		output        = fs.String("o", "", "output file (default stdout)")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: relmap [flags] <schema file or dir>...\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, nil, errors.New("no schema path given")
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "instruction":
			cfg.Instruction = *instruction
		case "format":
			cfg.Format = *format
		case "constraints":
			cfg.Constraints = *constraints
		case "language-table":
			cfg.LanguageTable = *languageTable
		case "workers":
			cfg.Workers = *workers
		case "log-level":
			cfg.LogLevel = *logLevel
		case "watch":
			cfg.Watch = *watch
		case "o":
			cfg.Output = *output
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

type app struct {
	cfg     *Config
	logger  *zap.Logger
	factory *meta.CachedFactory
	enc     *encoder
}

func newApp(cfg *Config, logger *zap.Logger, w io.Writer) (*app, error) {
	f, err := meta.NewFactory(
		meta.WithLogger(logger.Named("meta")),
		meta.WithLanguageTable(cfg.LanguageTable),
	)
	if err != nil {
		return nil, err
	}
	enc, err := newEncoder(w, cfg.Format)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		factory: meta.NewCachedFactory(f, relmap.NewMemoryCache(), 0),
		enc:     enc,
	}, nil
}

func (a *app) run(ctx context.Context, paths []string) error {
	exports, err := a.resolveAll(ctx, paths)
	if err != nil {
		return err
	}
	for _, e := range exports {
		if err := a.enc.Encode(e); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
	}
	if !a.cfg.Watch {
		return nil
	}
	a.logger.Info("watching schemas", zap.Strings("paths", paths))
	return load.Watch(ctx, paths, load.DefaultDebounce, func(path string) {
		e, err := a.resolve(ctx, path)
		if err != nil {
			a.logger.Error("resolution failed", zap.String("path", path), zap.Error(err))
			return
		}
		if err := a.enc.Encode(e); err != nil {
			a.logger.Error("failed to write export", zap.String("path", path), zap.Error(err))
		}
	})
}

// resolveAll resolves paths concurrently, bounded by the worker limit,
// and returns the exports in the order of paths.
func (a *app) resolveAll(ctx context.Context, paths []string) ([]*meta.Export, error) {
	exports := make([]*meta.Export, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			e, err := a.resolve(ctx, path)
			if err != nil {
				return err
			}
			exports[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return exports, nil
}

func (a *app) resolve(ctx context.Context, path string) (*meta.Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := load.Path(path)
	if err != nil {
		return nil, err
	}
	e, err := a.factory.Export(ctx, s, a.cfg.instruction, a.cfg.Constraints)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("schema resolved",
		zap.String("path", path),
		zap.Int("entities", e.Len()),
		zap.String("instruction", a.cfg.instruction.String()),
		zap.Bool("constraints", a.cfg.Constraints),
	)
	return e, nil
}

// encoder writes a stream of exports in one format. JSON exports are
// written one per line, YAML exports as separate documents and msgpack
// exports back to back.
type encoder struct {
	encode func(any) error
	close  func() error
}

func newEncoder(w io.Writer, format string) (*encoder, error) {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return &encoder{encode: enc.Encode, close: func() error { return nil }}, nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &encoder{encode: enc.Encode, close: enc.Close}, nil
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		return &encoder{encode: enc.Encode, close: func() error { return nil }}, nil
	default:
		return nil, meta.NewConfigError("format", format, "use json, yaml or msgpack")
	}
}

// Encode writes one export.
func (e *encoder) Encode(v *meta.Export) error { return e.encode(v) }

// Close flushes the stream.
func (e *encoder) Close() error { return e.close() }
