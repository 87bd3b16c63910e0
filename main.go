// Command flipdoc converts text, image and Word files to PDF from the command line.
//
//	flipdoc -out 'out/${name}.pdf' notes.txt photo.jpg report.docx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JoquimMarques/flipdoc/binding"
	"github.com/JoquimMarques/flipdoc/convert"
	"github.com/JoquimMarques/flipdoc/dsl"
	"github.com/JoquimMarques/flipdoc/extract"
	"github.com/JoquimMarques/flipdoc/internal/config"
	"github.com/JoquimMarques/flipdoc/internal/logger"
	"github.com/JoquimMarques/flipdoc/layout"
	"github.com/JoquimMarques/flipdoc/renderer"
)

type options struct {
	kind     string
	out      string
	debug    string
	page     string
	backend  string
	title    string
	fontPath string
	config   string
	jobs     int
	verbose  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.kind, "kind", "auto", "input kind: auto, text, image or word")
	flag.StringVar(&opts.out, "out", "out/${name}.pdf", "output path template (${name}, ${ext}, ${dir}, ${kind}, ${index})")
	flag.StringVar(&opts.debug, "debug", "", "layout debug JSON path template, empty to skip")
	flag.StringVar(&opts.page, "page", "", `page spec, e.g. "A4 portrait margin 50pt font Helvetica size 12pt line-height 1.5x"`)
	flag.StringVar(&opts.backend, "backend", "", "render backend: "+strings.Join(renderer.Backends(), ", "))
	flag.StringVar(&opts.title, "title", "", "PDF title (default: input file name)")
	flag.StringVar(&opts.fontPath, "font", "", "TrueType font file for the canvas backend")
	flag.StringVar(&opts.config, "config", "", "config file (default: ./config.toml when present)")
	flag.IntVar(&opts.jobs, "j", runtime.NumCPU(), "files converted in parallel")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logCfg := logger.DefaultConfig()
	if opts.verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, flag.Args(), log); err != nil {
		log.Error("conversion failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

// job is one input file and where its output goes.
type job struct {
	input string
	kind  convert.Kind
	out   string
	debug string
}

// run builds the service from config and flags, then converts every input with at most opts.jobs in flight.
func run(ctx context.Context, opts options, inputs []string, log *zap.Logger) error {
	svc, err := newService(opts, log)
	if err != nil {
		return err
	}
	jobs, err := plan(opts, inputs)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for _, j := range jobs {
		g.Go(func() error {
			return convertOne(ctx, svc, j, log)
		})
	}
	return g.Wait()
}

func newService(opts options, log *zap.Logger) (*convert.Service, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.config != "" {
		cfg, err = config.LoadFile(opts.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	geometry, err := cfg.Page.Geometry()
	if err != nil {
		return nil, err
	}
	if opts.page != "" {
		spec, err := dsl.ParseString(opts.page)
		if err != nil {
			return nil, fmt.Errorf("-page: %w", err)
		}
		if geometry, err = layout.GeometryFromSpec(spec, geometry); err != nil {
			return nil, fmt.Errorf("-page: %w", err)
		}
	}

	backendName := cfg.Render.Backend
	if opts.backend != "" {
		backendName = opts.backend
	}
	fontPath := cfg.Render.FontPath
	if opts.fontPath != "" {
		fontPath = opts.fontPath
	}
	backend, err := convert.OpenBackend(convert.BackendOptions{
		Name:     backendName,
		Creator:  cfg.Render.Creator,
		Font:     geometry.Font,
		FontPath: fontPath,
	})
	if err != nil {
		return nil, err
	}

	title := cfg.Render.Title
	if opts.title != "" {
		title = opts.title
	}
	log.Debug("service ready",
		zap.String("backend", backendName),
		zap.Any("geometry", geometry),
		zap.Int("lines_per_page", geometry.LinesPerPage()),
	)
	return convert.New(backend, extract.Office{}, convert.Options{
		Geometry: geometry,
		Bounds:   cfg.Image.Bounds(),
		Meta:     layout.DocumentMeta{Title: title, Creator: cfg.Render.Creator},
		TempDir:  cfg.App.TempDir,
		Logger:   log,
	}), nil
}

// plan resolves each input's kind and output paths, rejecting templates that would make two inputs
// write the same file.
func plan(opts options, inputs []string) ([]job, error) {
	var forced convert.Kind
	if opts.kind != "" && opts.kind != "auto" {
		k, err := convert.ParseKind(opts.kind)
		if err != nil {
			return nil, err
		}
		forced = k
	}

	jobs := make([]job, 0, len(inputs))
	seen := map[string]string{}
	for i, input := range inputs {
		ext := filepath.Ext(input)
		data := map[string]any{
			"name":  strings.TrimSuffix(filepath.Base(input), ext),
			"ext":   strings.TrimPrefix(ext, "."),
			"dir":   filepath.Dir(input),
			"kind":  string(forced),
			"index": i + 1,
		}
		if forced == "" {
			data["kind"] = "auto"
		}
		j := job{input: input, kind: forced}

		var err error
		if j.out, err = expand("-out", opts.out, data); err != nil {
			return nil, err
		}
		if prev, dup := seen[j.out]; dup {
			return nil, fmt.Errorf("%s and %s would both be written to %s; add ${dir} or ${index} to -out", prev, input, j.out)
		}
		seen[j.out] = input
		if opts.debug != "" {
			if j.debug, err = expand("-debug", opts.debug, data); err != nil {
				return nil, err
			}
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func expand(flagName, template string, data map[string]any) (string, error) {
	if missing := binding.Unresolved(template, data); len(missing) > 0 {
		return "", fmt.Errorf("%s: unknown placeholder ${%s}", flagName, missing[0])
	}
	return binding.Interpolate(template, data), nil
}

func convertOne(ctx context.Context, svc *convert.Service, j job, log *zap.Logger) error {
	res, err := svc.File(ctx, j.input, j.kind)
	if err != nil {
		return fmt.Errorf("%s: %w", j.input, err)
	}
	if j.debug != "" {
		if err := os.MkdirAll(filepath.Dir(j.debug), 0o755); err != nil {
			return fmt.Errorf("creating debug directory: %w", err)
		}
		if err := layout.WriteDebugJSON(res.Document, j.debug); err != nil {
			return fmt.Errorf("writing debug JSON: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(j.out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(j.out, res.PDF, 0o644); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	log.Info("PDF written",
		zap.String("input", j.input),
		zap.String("output", j.out),
		zap.String("kind", string(res.Kind)),
		zap.Int("pages", len(res.Document.Pages)),
	)
	return nil
}
