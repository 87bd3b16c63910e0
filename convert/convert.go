// Package convert turns text, images and word-processor files into PDF documents.
//
// A Service owns one render backend and runs every input kind through the same steps: sniff and
// validate, extract when needed, lay out with the layout engine, then render.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/JoquimMarques/flipdoc/extract"
	"github.com/JoquimMarques/flipdoc/internal/logger"
	"github.com/JoquimMarques/flipdoc/layout"
	"github.com/JoquimMarques/flipdoc/renderer"
)

// Kind names an input category.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindWord  Kind = "word"
)

// ParseKind accepts "text", "image" and "word" in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindText, KindImage, KindWord:
		return k, nil
	default:
		return "", fmt.Errorf("unknown input kind %q (want text, image or word)", s)
	}
}

// Recorder receives one observation per finished conversion. outcome is "ok", the failed
// validation rule, or "error".
type Recorder interface {
	ObserveConversion(kind, outcome string, pages int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveConversion(string, string, int, time.Duration) {}

// Options configures a Service. Zero values fall back to the A4 defaults.
type Options struct {
	Geometry layout.Geometry
	Bounds   layout.Bounds
	Meta     layout.DocumentMeta
	// TempDir receives uploaded word files while they are extracted. Empty means os.TempDir.
	TempDir  string
	Logger   *zap.Logger
	Recorder Recorder
}

// Result is a rendered conversion.
type Result struct {
	Kind     Kind
	PDF      []byte
	Document *layout.Document
}

// Service converts inputs with one backend. It holds no per-request state and is safe for
// concurrent use when its backend and extractor are.
type Service struct {
	backend   renderer.Backend
	extractor extract.Extractor
	geometry  layout.Geometry
	bounds    layout.Bounds
	meta      layout.DocumentMeta
	tempDir   string
	logger    *zap.Logger
	recorder  Recorder
}

// New builds a Service. A nil extractor means extract.Office.
func New(backend renderer.Backend, extractor extract.Extractor, opts Options) *Service {
	if extractor == nil {
		extractor = extract.Office{}
	}
	if opts.Geometry == (layout.Geometry{}) {
		opts.Geometry = layout.DefaultGeometry()
	}
	if opts.Bounds == (layout.Bounds{}) {
		opts.Bounds = layout.DefaultImageBounds()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return &Service{
		backend:   backend,
		extractor: extractor,
		geometry:  opts.Geometry,
		bounds:    opts.Bounds,
		meta:      opts.Meta,
		tempDir:   opts.TempDir,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
	}
}

// Geometry returns the page policy used for text.
func (s *Service) Geometry() layout.Geometry { return s.geometry }

// Text lays out and renders plain text.
func (s *Service) Text(ctx context.Context, text string) (res *Result, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, KindText, start, res, err) }()

	doc, err := layout.LayoutText(text, s.geometry, s.backend)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, KindText, doc, "")
}

// Image places one JPEG or PNG image on a page sized to it. The encoding is sniffed from data; the
// file name, if any, only names the resource.
func (s *Service) Image(ctx context.Context, data []byte, name string) (res *Result, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, KindImage, start, res, err) }()

	mt := mimetype.Detect(data)
	format := layout.NormalizeImageFormat(mt.String())
	if !layout.SupportedImageFormat(format) {
		return nil, layout.UnsupportedFormat(layout.RuleImageFormat, fmt.Sprintf("%s is not a JPEG or PNG image", mt.String()))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, layout.InvalidInput(layout.RuleImageDimensions, fmt.Sprintf("reading image header: %v", err))
	}

	doc, err := layout.LayoutImage(layout.ImageResource{
		Name:        baseName(name),
		Format:      format,
		PixelWidth:  float64(cfg.Width),
		PixelHeight: float64(cfg.Height),
		Data:        data,
	}, s.bounds)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, KindImage, doc, baseName(name))
}

// Word extracts the text of an uploaded .doc or .docx file and lays it out like plain text. The
// upload is spooled to a temporary file that is removed before Word returns.
func (s *Service) Word(ctx context.Context, r io.Reader, filename string) (res *Result, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, KindWord, start, res, err) }()

	if err := extract.CheckWordFile(filename); err != nil {
		return nil, err
	}
	path, err := s.spool(r, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	return s.word(ctx, path, filename)
}

// WordFile converts a word-processor file already on disk. Besides .doc and .docx it accepts
// whatever the extractor reads.
func (s *Service) WordFile(ctx context.Context, path string) (res *Result, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, KindWord, start, res, err) }()
	return s.word(ctx, path, path)
}

func (s *Service) word(ctx context.Context, path, filename string) (*Result, error) {
	text, err := s.extractor.ExtractText(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := layout.LayoutWordDocument(text, s.geometry, s.backend)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, KindWord, doc, baseName(filename))
}

// File reads path and converts it as kind. An empty kind is detected from the content.
func (s *Service) File(ctx context.Context, path string, kind Kind) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		if kind, err = Detect(data, path); err != nil {
			return nil, err
		}
	}
	switch kind {
	case KindText:
		text, err := DecodeText(data)
		if err != nil {
			return nil, err
		}
		return s.Text(ctx, text)
	case KindImage:
		return s.Image(ctx, data, path)
	case KindWord:
		return s.WordFile(ctx, path)
	default:
		return nil, fmt.Errorf("unknown input kind %q", kind)
	}
}

func (s *Service) render(ctx context.Context, kind Kind, doc *layout.Document, title string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc.Meta = s.meta
	if doc.Meta.Title == "" {
		doc.Meta.Title = title
	}
	pdf, err := s.backend.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("rendering %s document: %w", kind, err)
	}
	return &Result{Kind: kind, PDF: pdf, Document: doc}, nil
}

func (s *Service) spool(r io.Reader, ext string) (string, error) {
	f, err := os.CreateTemp(s.tempDir, "flipdoc-*"+strings.ToLower(ext))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("saving upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return f.Name(), nil
}

func (s *Service) finish(ctx context.Context, kind Kind, start time.Time, res *Result, err error) {
	elapsed := time.Since(start)
	pages, lines := 0, 0
	if res != nil {
		pages = len(res.Document.Pages)
		lines = res.Document.LineCount()
	}
	outcome := "ok"
	if err != nil {
		outcome = layout.RuleOf(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	s.recorder.ObserveConversion(string(kind), outcome, pages, elapsed)

	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.Int("pages", pages),
		zap.Int("lines", lines),
		zap.Duration("duration", elapsed),
	}
	// HTTP requests carry a logger that already names the request
	log := logger.FromContextOr(ctx, s.logger)
	if err != nil {
		fields = append(fields, zap.String("rule", outcome), zap.Error(err))
		log.Warn("conversion failed", fields...)
		return
	}
	log.Info("conversion finished", fields...)
}

func baseName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
