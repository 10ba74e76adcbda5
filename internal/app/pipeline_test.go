package app

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"foodvision-server-go/internal/domain/detection"
	imagedomain "foodvision-server-go/internal/domain/image"
	"foodvision-server-go/internal/domain/info"
	"foodvision-server-go/internal/domain/report"
	"foodvision-server-go/internal/domain/video"
	"foodvision-server-go/internal/platform/errors"
)

type fakeNormalizer struct {
	img *imagedomain.Normalized
	err error
}

func (f *fakeNormalizer) Normalize(ctx context.Context, r io.Reader) (*imagedomain.Normalized, error) {
	io.Copy(io.Discard, r)
	return f.img, f.err
}

type fakeDetector struct {
	identities []detection.FoodIdentity
	err        error
}

func (f *fakeDetector) Detect(ctx context.Context, img *imagedomain.Normalized) ([]detection.FoodIdentity, error) {
	return f.identities, f.err
}

type fakeInfo struct {
	mu      sync.Mutex
	answers map[info.Category]string
	err     error
	calls   []info.Category
}

func (f *fakeInfo) Answer(ctx context.Context, foodName string, category info.Category, constraints []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, category)
	if f.err != nil {
		return "", f.err
	}
	return f.answers[category], nil
}

type fakeVideo struct {
	result *video.Result
	err    error
}

func (f *fakeVideo) FindPreparationVideo(ctx context.Context, foodName string) (*video.Result, error) {
	return f.result, f.err
}

type fakeReport struct {
	got report.Document
	pdf []byte
	err error
}

func (f *fakeReport) Build(doc report.Document) ([]byte, error) {
	f.got = doc
	return f.pdf, f.err
}

type fakeSpeaker struct {
	audio []byte
	err   error
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	return f.audio, f.err
}

func newTestPipeline(t *testing.T, deps Deps) *Pipeline {
	t.Helper()
	if deps.Normalizer == nil {
		deps.Normalizer = &fakeNormalizer{img: &imagedomain.Normalized{Format: "jpeg"}}
	}
	if deps.Detector == nil {
		deps.Detector = &fakeDetector{}
	}
	if deps.Info == nil {
		deps.Info = &fakeInfo{answers: map[info.Category]string{}}
	}
	if deps.Video == nil {
		deps.Video = &fakeVideo{}
	}
	if deps.Report == nil {
		deps.Report = &fakeReport{pdf: []byte("%PDF")}
	}
	if deps.Speaker == nil {
		deps.Speaker = &fakeSpeaker{audio: []byte("mp3")}
	}

	p, err := New(deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewRequiresAllStages(t *testing.T) {
	_, err := New(Deps{})
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestDetectFoodReturnsIdentitiesAndOptions(t *testing.T) {
	p := newTestPipeline(t, Deps{
		Detector: &fakeDetector{identities: []detection.FoodIdentity{{Name: "Jollof Rice"}}},
	})

	out, err := p.DetectFood(context.Background(), bytes.NewReader([]byte("img")))
	if err != nil {
		t.Fatalf("DetectFood: %v", err)
	}
	if len(out.Identities) != 1 || out.Identities[0].Name != "Jollof Rice" {
		t.Fatalf("unexpected identities: %+v", out.Identities)
	}
	if len(out.Options) != len(info.Categories()) {
		t.Fatalf("expected full category menu, got %d entries", len(out.Options))
	}
}

func TestDetectFoodStopsOnBadImage(t *testing.T) {
	imgErr := errors.New(errors.KindImage, "image.normalize", "only JPEG or PNG images are supported")
	p := newTestPipeline(t, Deps{
		Normalizer: &fakeNormalizer{err: imgErr},
		Detector:   &fakeDetector{identities: []detection.FoodIdentity{{Name: "never"}}},
	})

	_, err := p.DetectFood(context.Background(), bytes.NewReader([]byte("gif")))
	if !errors.IsKind(err, errors.KindImage) {
		t.Fatalf("expected image error, got %v", err)
	}
}

func TestFullReportOrdersSectionsByRequest(t *testing.T) {
	categories := []info.Category{info.CategoryIngredients, info.CategoryCalories, info.CategoryAllergens}
	infoStage := &fakeInfo{answers: map[info.Category]string{
		info.CategoryIngredients: "rice, tomatoes, peppers",
		info.CategoryCalories:    "about 350 kcal per serving",
		info.CategoryAllergens:   "none common",
	}}
	reportStage := &fakeReport{pdf: []byte("%PDF-1.3")}
	p := newTestPipeline(t, Deps{
		Info:   infoStage,
		Video:  &fakeVideo{result: &video.Result{Title: "How to prepare Jollof Rice", Link: "https://www.youtube.com/watch?v=abc"}},
		Report: reportStage,
	})

	res, err := p.FullReport(context.Background(), FullReportRequest{
		FoodName:   "Jollof Rice",
		Categories: categories,
	})
	if err != nil {
		t.Fatalf("FullReport: %v", err)
	}
	if res.Filename != "Jollof_Rice_report.pdf" {
		t.Fatalf("unexpected filename: %q", res.Filename)
	}
	if len(res.Sections) != len(categories) {
		t.Fatalf("expected %d sections, got %d", len(categories), len(res.Sections))
	}
	for i, category := range categories {
		if res.Sections[i].Category != category {
			t.Fatalf("section %d: expected %q, got %q", i, category, res.Sections[i].Category)
		}
		if res.Sections[i].Answer != infoStage.answers[category] {
			t.Fatalf("section %d: unexpected answer %q", i, res.Sections[i].Answer)
		}
	}
	if reportStage.got.Video == nil || reportStage.got.Video.Title != "How to prepare Jollof Rice" {
		t.Fatalf("video not passed to builder: %+v", reportStage.got.Video)
	}
}

func TestFullReportDefaultsToAllCategories(t *testing.T) {
	infoStage := &fakeInfo{answers: map[info.Category]string{}}
	p := newTestPipeline(t, Deps{Info: infoStage})

	if _, err := p.FullReport(context.Background(), FullReportRequest{FoodName: "Suya"}); err != nil {
		t.Fatalf("FullReport: %v", err)
	}
	if len(infoStage.calls) != len(info.Categories()) {
		t.Fatalf("expected %d info calls, got %d", len(info.Categories()), len(infoStage.calls))
	}
}

func TestFullReportMissingVideoIsNotAnError(t *testing.T) {
	reportStage := &fakeReport{pdf: []byte("%PDF")}
	p := newTestPipeline(t, Deps{
		Video:  &fakeVideo{result: nil},
		Report: reportStage,
	})

	res, err := p.FullReport(context.Background(), FullReportRequest{
		FoodName:   "Moi Moi",
		Categories: []info.Category{info.CategoryCalories},
	})
	if err != nil {
		t.Fatalf("FullReport: %v", err)
	}
	if res.Video != nil || reportStage.got.Video != nil {
		t.Fatal("expected no video section")
	}
}

func TestFullReportPropagatesInfoFailure(t *testing.T) {
	stageErr := errors.New(errors.KindInfo, "info.answer", "text model call failed")
	p := newTestPipeline(t, Deps{Info: &fakeInfo{err: stageErr}})

	_, err := p.FullReport(context.Background(), FullReportRequest{
		FoodName:   "Egusi Soup",
		Categories: []info.Category{info.CategoryCalories},
	})
	if !errors.IsKind(err, errors.KindInfo) {
		t.Fatalf("expected info error, got %v", err)
	}
}

func TestFullReportRequiresFoodName(t *testing.T) {
	p := newTestPipeline(t, Deps{})

	_, err := p.FullReport(context.Background(), FullReportRequest{})
	if !errors.IsKind(err, errors.KindInfo) {
		t.Fatalf("expected info error, got %v", err)
	}
}
