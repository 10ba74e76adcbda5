package detection

import (
	"context"
	stderrors "errors"
	"strings"

	"foodvision-server-go/internal/domain/credential"
	"foodvision-server-go/internal/domain/image"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
)

// Prompt sent alongside every image in generative mode.
const identifyPrompt = "Identify the name of the food shown in the image. " +
	"Respond with ONLY the name (e.g., Jollof rice, Egusi soup, etc)."

// Prompt used in detector mode, asking for a structured candidate list.
const detectPrompt = "List every distinct food item visible in the image as a JSON array of " +
	`objects with fields "name" and "confidence" (0.0-1.0). Respond with ONLY the JSON array.`

// Mode selects how the model response is interpreted.
type Mode string

const (
	// ModeGenerative treats the whole trimmed response as a single food name.
	ModeGenerative Mode = "generative"
	// ModeDetector parses a JSON candidate list and filters by confidence.
	ModeDetector Mode = "detector"
)

// VisionClient submits an image plus instruction to the vision model using
// the given credential and returns the raw text response.
type VisionClient interface {
	Generate(ctx context.Context, key credential.Credential, instruction string, img *image.Normalized) (string, error)
}

// Detector identifies food items on a normalized image through an external
// vision model, drawing one credential from the pool per call.
type Detector struct {
	client VisionClient
	pool   *credential.Pool
	mode   Mode
	logger *logging.Logger
}

// NewDetector constructs a detector. Mode defaults to generative.
func NewDetector(client VisionClient, pool *credential.Pool, mode Mode, logger *logging.Logger) (*Detector, error) {
	if client == nil {
		return nil, errors.New(errors.KindConfig, "detection.new", "vision client is required")
	}
	if pool == nil {
		return nil, errors.New(errors.KindConfig, "detection.new", "credential pool is required")
	}
	if mode == "" {
		mode = ModeGenerative
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	return &Detector{
		client: client,
		pool:   pool,
		mode:   mode,
		logger: logger,
	}, nil
}

// Detect identifies one or more foods in the image. An empty, non-nil slice
// means the model saw no food; that is a valid outcome, not an error.
func (d *Detector) Detect(ctx context.Context, img *image.Normalized) ([]FoodIdentity, error) {
	if img == nil {
		return nil, errors.New(errors.KindDetection, "detection.detect", "normalized image is required")
	}

	instruction := identifyPrompt
	if d.mode == ModeDetector {
		instruction = detectPrompt
	}

	key := d.pool.Select()
	response, err := d.client.Generate(ctx, key, instruction, img)
	if err != nil {
		if stderrors.Is(err, credential.ErrRejected) {
			d.logger.WarnTag("Detection", "credential rejected by upstream, cooling it down")
			d.pool.ReportFailure(key)
		}
		return nil, errors.Wrap(errors.KindDetection, "detection.detect", "vision model call failed", err)
	}

	switch d.mode {
	case ModeDetector:
		candidates, err := ParseCandidates(response)
		if err != nil {
			return nil, err
		}
		filtered := FilterCandidates(candidates)
		d.logger.DebugTag("Detection", "detector returned %d candidates, %d above threshold",
			len(candidates), len(filtered))
		return filtered, nil

	default:
		name := strings.TrimSpace(response)
		if name == "" {
			return nil, errors.New(errors.KindDetection, "detection.detect", "vision model returned an empty response")
		}
		d.logger.DebugTag("Detection", "identified food: %s", name)
		return []FoodIdentity{{Name: name}}, nil
	}
}
