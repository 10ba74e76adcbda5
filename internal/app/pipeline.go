package app

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"foodvision-server-go/internal/domain/detection"
	imagedomain "foodvision-server-go/internal/domain/image"
	"foodvision-server-go/internal/domain/info"
	"foodvision-server-go/internal/domain/report"
	"foodvision-server-go/internal/domain/video"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
)

// infoConcurrency bounds the parallel model calls issued by FullReport.
const infoConcurrency = 4

// Normalizer validates and canonicalises an uploaded image.
type Normalizer interface {
	Normalize(ctx context.Context, r io.Reader) (*imagedomain.Normalized, error)
}

// Detector identifies foods in a normalized image.
type Detector interface {
	Detect(ctx context.Context, img *imagedomain.Normalized) ([]detection.FoodIdentity, error)
}

// InfoProvider answers one category question about a food.
type InfoProvider interface {
	Answer(ctx context.Context, foodName string, category info.Category, constraints []string) (string, error)
}

// VideoFinder locates a preparation video, nil when none exists.
type VideoFinder interface {
	FindPreparationVideo(ctx context.Context, foodName string) (*video.Result, error)
}

// ReportBuilder renders a report document as PDF bytes.
type ReportBuilder interface {
	Build(doc report.Document) ([]byte, error)
}

// Speaker synthesizes speech from text.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// Deps collects the pipeline's stage implementations.
type Deps struct {
	Normalizer Normalizer
	Detector   Detector
	Info       InfoProvider
	Video      VideoFinder
	Report     ReportBuilder
	Speaker    Speaker
	Logger     *logging.Logger
}

// Pipeline composes the stages behind the HTTP surface. It holds no request
// state; every method is safe for concurrent use.
type Pipeline struct {
	normalizer Normalizer
	detector   Detector
	info       InfoProvider
	video      VideoFinder
	report     ReportBuilder
	speaker    Speaker
	logger     *logging.Logger
}

// New validates the wiring and returns a ready pipeline.
func New(deps Deps) (*Pipeline, error) {
	switch {
	case deps.Normalizer == nil:
		return nil, errors.New(errors.KindConfig, "app.new", "image normalizer is required")
	case deps.Detector == nil:
		return nil, errors.New(errors.KindConfig, "app.new", "detector is required")
	case deps.Info == nil:
		return nil, errors.New(errors.KindConfig, "app.new", "info provider is required")
	case deps.Video == nil:
		return nil, errors.New(errors.KindConfig, "app.new", "video finder is required")
	case deps.Report == nil:
		return nil, errors.New(errors.KindConfig, "app.new", "report builder is required")
	case deps.Speaker == nil:
		return nil, errors.New(errors.KindConfig, "app.new", "speaker is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.DefaultLogger
	}

	return &Pipeline{
		normalizer: deps.Normalizer,
		detector:   deps.Detector,
		info:       deps.Info,
		video:      deps.Video,
		report:     deps.Report,
		speaker:    deps.Speaker,
		logger:     logger,
	}, nil
}

// DetectOutcome is the result of the detection stage plus the fixed
// category menu offered to the client.
type DetectOutcome struct {
	Identities []detection.FoodIdentity
	Options    []info.Category
}

// DetectFood normalizes the upload and runs detection on it. The uploaded
// bytes never outlive the request.
func (p *Pipeline) DetectFood(ctx context.Context, r io.Reader) (*DetectOutcome, error) {
	img, err := p.normalizer.Normalize(ctx, r)
	if err != nil {
		return nil, err
	}

	identities, err := p.detector.Detect(ctx, img)
	if err != nil {
		return nil, err
	}

	return &DetectOutcome{
		Identities: identities,
		Options:    info.Categories(),
	}, nil
}

// FoodInfo answers one category question about the food.
func (p *Pipeline) FoodInfo(ctx context.Context, foodName string, category info.Category, constraints []string) (string, error) {
	return p.info.Answer(ctx, foodName, category, constraints)
}

// PrepareFood looks up a preparation video. A nil result means none exists.
func (p *Pipeline) PrepareFood(ctx context.Context, foodName string) (*video.Result, error) {
	return p.video.FindPreparationVideo(ctx, foodName)
}

// BuildReport renders the document as a PDF.
func (p *Pipeline) BuildReport(_ context.Context, doc report.Document) ([]byte, error) {
	return p.report.Build(doc)
}

// Narrate synthesizes the text as speech audio.
func (p *Pipeline) Narrate(ctx context.Context, text string) ([]byte, error) {
	return p.speaker.Speak(ctx, text)
}

// FullReportRequest asks for a complete report in one round trip.
type FullReportRequest struct {
	FoodName    string
	Constraints []string
	Categories  []info.Category
}

// FullReportResult carries the rendered PDF alongside the gathered content.
type FullReportResult struct {
	PDF      []byte
	Filename string
	Sections []report.Section
	Video    *video.Result
}

// FullReport answers every requested category and looks up the preparation
// video concurrently, then assembles the PDF. Sections keep the request's
// category order regardless of completion order.
func (p *Pipeline) FullReport(ctx context.Context, req FullReportRequest) (*FullReportResult, error) {
	if req.FoodName == "" {
		return nil, errors.New(errors.KindInfo, "app.full_report", "food name is required")
	}
	if len(req.Categories) == 0 {
		req.Categories = info.Categories()
	}

	sections := make([]report.Section, len(req.Categories))
	var found *video.Result

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(infoConcurrency)

	for i, category := range req.Categories {
		g.Go(func() error {
			answer, err := p.info.Answer(gctx, req.FoodName, category, req.Constraints)
			if err != nil {
				return err
			}
			sections[i] = report.Section{Category: category, Answer: answer}
			return nil
		})
	}
	g.Go(func() error {
		result, err := p.video.FindPreparationVideo(gctx, req.FoodName)
		if err != nil {
			return err
		}
		found = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := report.Document{
		FoodName:    req.FoodName,
		Constraints: req.Constraints,
		Sections:    sections,
		Video:       found,
	}
	pdf, err := p.report.Build(doc)
	if err != nil {
		return nil, err
	}

	p.logger.InfoTag("Pipeline", "full report for %q: %d sections, video=%t, %d bytes",
		req.FoodName, len(sections), found != nil, len(pdf))
	return &FullReportResult{
		PDF:      pdf,
		Filename: report.Filename(req.FoodName),
		Sections: sections,
		Video:    found,
	}, nil
}
