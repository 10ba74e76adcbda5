package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"foodvision-server-go/internal/platform/config"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
)

const jpegQuality = 90

// Normalizer turns arbitrary uploads into the canonical representation used
// by every downstream stage. Only JPEG and PNG uploads are accepted; any
// alpha channel is flattened onto an opaque white background before the
// image is re-encoded as JPEG.
type Normalizer struct {
	validator *Validator
	security  *config.SecurityConfig
	logger    *logging.Logger
}

// NewNormalizer constructs a normalizer.
func NewNormalizer(cfg *config.SecurityConfig, logger *logging.Logger) (*Normalizer, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "image.new", "security config is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	return &Normalizer{
		validator: NewValidator(cfg, logger),
		security:  cfg,
		logger:    logger,
	}, nil
}

// Normalize streams, validates and canonicalises an uploaded image.
func (n *Normalizer) Normalize(ctx context.Context, r io.Reader) (*Normalized, error) {
	if r == nil {
		return nil, errors.New(errors.KindImage, "image.normalize", "image reader is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.KindImage, "image.normalize", "request cancelled", err)
	}

	maxSize := n.security.MaxFileSize
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}

	limited := &io.LimitedReader{R: r, N: maxSize + 1}
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.Wrap(errors.KindImage, "image.normalize", "read image bytes", err)
	}
	if limited.N <= 0 {
		return nil, errors.New(errors.KindImage, "image.normalize",
			fmt.Sprintf("image exceeds maximum size of %d bytes", maxSize))
	}

	validation := n.validator.ValidateBytes(raw, "")
	if !validation.IsValid {
		return nil, errors.Wrap(errors.KindImage, "image.normalize", "image validation failed", validation.Error)
	}

	if !n.validator.FormatAllowed(validation.Format) {
		return nil, errors.New(errors.KindImage, "image.normalize",
			fmt.Sprintf("unsupported format %q: only JPEG or PNG images are supported", validation.Format))
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.KindImage, "image.normalize", "decode image", err)
	}

	flattened := flattenAlpha(decoded)

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, flattened, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(errors.KindImage, "image.normalize", "encode canonical JPEG", err)
	}

	canonical := encoded.Bytes()
	n.logger.Debug(
		"image normalized: source_format=%s canonical_size=%d",
		validation.Format,
		len(canonical),
	)

	return &Normalized{
		Bytes:  canonical,
		Base64: base64.StdEncoding.EncodeToString(canonical),
		Format: "jpeg",
		Width:  validation.Width,
		Height: validation.Height,
	}, nil
}

// flattenAlpha composites the image onto an opaque white background when it
// carries transparency. Opaque images are returned unchanged.
func flattenAlpha(src image.Image) image.Image {
	if opaque, ok := src.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return src
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}

// WithTempFile writes payload to a uniquely named temporary file, invokes fn
// with its path and removes the file on every exit path, panics included.
func WithTempFile(payload []byte, suffix string, fn func(path string) error) error {
	path := filepath.Join(os.TempDir(), uuid.NewString()+suffix)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	defer os.Remove(path)

	return fn(path)
}
