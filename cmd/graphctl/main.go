// Command graphctl edits a stored graph from the command line.
//
// It runs JSON operation scripts or free-text instructions (through an
// OpenAI or Gemini planner) against a memory, SQLite, PostgreSQL, Redis or
// MongoDB backend, and can archive snapshots to S3.
//
//	graphctl -script ops.json -save roadmap
//	graphctl -instruct "add a review step after drafting" -load roadmap
//	graphctl -check
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"

	"github.com/dmitrymomot/graphedit"
	"github.com/dmitrymomot/graphedit/core/config"
	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/healthcheck"
	"github.com/dmitrymomot/graphedit/core/logger"
	"github.com/dmitrymomot/graphedit/integration/storage/s3"
	"github.com/dmitrymomot/graphedit/pkg/planner"
)

type flags struct {
	script    string
	instruct  string
	load      string
	save      string
	snapshots bool
	check     bool
}

func main() {
	var f flags
	flag.StringVar(&f.script, "script", "", "JSON operation script to run (- for stdin)")
	flag.StringVar(&f.instruct, "instruct", "", "free-text instruction for the planner")
	flag.StringVar(&f.load, "load", "", "import the named S3 snapshot before running")
	flag.StringVar(&f.save, "save", "", "export the graph to the named S3 snapshot after running")
	flag.BoolVar(&f.snapshots, "snapshots", false, "list S3 snapshots and exit")
	flag.BoolVar(&f.check, "check", false, "run backend readiness checks and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, f, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one graphctl invocation. Results go to stdout; logs and the
// metrics dump go to stderr.
func run(ctx context.Context, f flags, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	log := cfg.logger(stderr)

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	defer b.close()

	if f.check {
		status, err := healthcheck.Run(ctx, log, b.check)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, status)
		return nil
	}

	archive, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	if f.snapshots {
		return listSnapshots(ctx, archive, stdout)
	}

	reg := prometheus.NewRegistry()
	engine, err := graphedit.New(graph.NewStore(b),
		graphedit.WithLogger(log),
		graphedit.WithMetrics(reg),
		graphedit.WithTracer(otel.Tracer("graphctl")),
		graphedit.WithUndoLimit(cfg.UndoLimit),
	)
	if err != nil {
		return err
	}

	if f.load != "" {
		if archive == nil {
			return errors.New("-load needs S3_BUCKET")
		}
		snap, err := archive.Load(ctx, f.load)
		if err != nil {
			return err
		}
		if err := engine.Store().Import(ctx, snap); err != nil {
			return err
		}
		log.InfoContext(ctx, "snapshot loaded", logger.Key("snapshot", f.load), logger.Count("nodes", len(snap.Nodes)))
	}

	enc := json.NewEncoder(stdout)
	switch {
	case f.script != "":
		if err := runScriptFile(ctx, engine, f.script, stdin, enc); err != nil {
			return err
		}
	case f.instruct != "":
		if err := runInstruction(ctx, engine, cfg, log, f.instruct, enc); err != nil {
			return err
		}
	}

	if err := enc.Encode(map[string]any{"state": engine.UndoRedoState()}); err != nil {
		return err
	}

	if f.save != "" {
		if archive == nil {
			return errors.New("-save needs S3_BUCKET")
		}
		snap, err := engine.Store().Export(ctx)
		if err != nil {
			return err
		}
		if err := archive.Save(ctx, f.save, snap); err != nil {
			return err
		}
		log.InfoContext(ctx, "snapshot saved", logger.Key("snapshot", f.save))
	}

	if cfg.MetricsDump {
		return dumpMetrics(reg, stderr)
	}
	return nil
}

func runScriptFile(ctx context.Context, engine *graphedit.Engine, path string, stdin io.Reader, enc *json.Encoder) error {
	r := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer file.Close()
		r = file
	}

	steps, err := readScript(r)
	if err != nil {
		return err
	}
	for _, o := range runScript(ctx, engine, steps) {
		if err := enc.Encode(o); err != nil {
			return err
		}
	}
	return nil
}

func runInstruction(ctx context.Context, engine *graphedit.Engine, cfg Config, log *slog.Logger, instruction string, enc *json.Encoder) error {
	p, err := newPlanner(ctx, cfg)
	if err != nil {
		return err
	}

	snap, err := engine.Store().Export(ctx)
	if err != nil {
		return err
	}

	steps, err := planner.NewRunner(engine, planner.WithLogger(log)).
		Apply(ctx, p, instruction, planner.Summarize(snap, engine.Commands()))
	if err != nil {
		return err
	}
	for _, s := range steps {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return nil
}

func newPlanner(ctx context.Context, cfg Config) (planner.Planner, error) {
	switch cfg.Planner {
	case "openai":
		return planner.NewOpenAI(cfg.OpenAIKey, planner.WithOpenAIModel(cfg.PlanModel))
	case "google":
		return planner.NewGoogle(ctx, cfg.GoogleKey, planner.WithGoogleModel(cfg.PlanModel))
	}
	return nil, fmt.Errorf("unknown planner %q", cfg.Planner)
}

// openArchive returns nil when no bucket is configured.
func openArchive(ctx context.Context, cfg Config) (*s3.SnapshotStore, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}
	var s3Cfg s3.Config
	if err := config.Load(&s3Cfg); err != nil {
		return nil, err
	}
	return s3.New(ctx, s3Cfg)
}

func listSnapshots(ctx context.Context, archive *s3.SnapshotStore, w io.Writer) error {
	if archive == nil {
		return errors.New("-snapshots needs S3_BUCKET")
	}
	infos, err := archive.List(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", info.Name, info.Size, info.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func dumpMetrics(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
