package image

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"foodvision-server-go/internal/platform/config"
	"foodvision-server-go/internal/platform/logging"
)

// Validator performs layered checks against incoming image payloads before
// any full decode happens. All common formats are registered for decoding so
// that mislabeled uploads are identified by their real format and then
// rejected by the whitelist, not mistaken for a corrupt file.
type Validator struct {
	config *config.SecurityConfig
	logger *logging.Logger
}

// NewValidator constructs a new validator instance.
func NewValidator(cfg *config.SecurityConfig, logger *logging.Logger) *Validator {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Validator{
		config: cfg,
		logger: logger,
	}
}

var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8},
	"jpg":  {0xFF, 0xD8},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"gif":  {0x47, 0x49, 0x46, 0x38},
	"webp": {0x52, 0x49, 0x46, 0x46},
	"bmp":  {0x42, 0x4D},
}

// ValidateBytes validates raw bytes directly.
func (v *Validator) ValidateBytes(raw []byte, declaredFormat string) ValidationResult {
	result := ValidationResult{IsValid: false}

	if len(raw) == 0 {
		result.Error = fmt.Errorf("empty image payload")
		return result
	}

	if v.config.MaxFileSize > 0 && int64(len(raw)) > v.config.MaxFileSize {
		result.Error = fmt.Errorf(
			"file size exceeds limit: %d bytes (max %d bytes)",
			len(raw),
			v.config.MaxFileSize,
		)
		v.logger.Warn(
			"rejected oversized image: size=%d max_size=%d format=%s",
			len(raw),
			v.config.MaxFileSize,
			declaredFormat,
		)
		return result
	}

	decodeResult := v.validateImageDecoding(raw, declaredFormat)
	if !decodeResult.IsValid {
		if declaredFormat != "" && !v.validateFileSignature(raw, declaredFormat) {
			actualHeader := fmt.Sprintf("%x", raw[:min(len(raw), 16)])
			v.logger.Warn(
				"file signature mismatch: declared_format=%s actual_header=%s",
				declaredFormat,
				actualHeader,
			)
		}
		return decodeResult
	}

	result = decodeResult
	result.IsValid = true
	result.FileSize = int64(len(raw))
	return result
}

// FormatAllowed reports whether the decoded format is on the whitelist.
func (v *Validator) FormatAllowed(format string) bool {
	if format == "" {
		return false
	}

	format = strings.ToLower(format)
	allowed := v.config.AllowedFormats
	if len(allowed) == 0 {
		allowed = []string{"jpeg", "jpg", "png"}
	}

	for _, allowedFormat := range allowed {
		if strings.ToLower(allowedFormat) == format {
			return true
		}
	}
	return false
}

func (v *Validator) validateFileSignature(raw []byte, format string) bool {
	signature, ok := imageSignatures[strings.ToLower(format)]
	if !ok || len(signature) == 0 {
		return true
	}
	if len(raw) < len(signature) {
		return false
	}
	return bytes.Equal(signature, raw[:len(signature)])
}

func (v *Validator) validateImageDecoding(raw []byte, format string) ValidationResult {
	result := ValidationResult{Format: format}
	reader := bytes.NewReader(raw)

	cfg, actualFormat, err := image.DecodeConfig(reader)
	if err != nil {
		result.Error = fmt.Errorf("decode image config: %w", err)
		return result
	}

	if actualFormat != "" {
		result.Format = actualFormat
	}

	if v.config.MaxWidth > 0 && v.config.MaxHeight > 0 &&
		(cfg.Width > v.config.MaxWidth || cfg.Height > v.config.MaxHeight) {
		result.Error = fmt.Errorf("dimensions exceed limit: %dx%d (max %dx%d)",
			cfg.Width, cfg.Height, v.config.MaxWidth, v.config.MaxHeight)
		return result
	}

	totalPixels := int64(cfg.Width) * int64(cfg.Height)
	if v.config.MaxPixels > 0 && totalPixels > v.config.MaxPixels {
		result.Error = fmt.Errorf("pixel count exceeds limit: %d (max %d)", totalPixels, v.config.MaxPixels)
		return result
	}

	result.IsValid = true
	result.Width = cfg.Width
	result.Height = cfg.Height
	result.FileSize = int64(len(raw))

	v.logger.Debug(
		"image validation success: format=%s width=%d height=%d size=%d",
		result.Format,
		result.Width,
		result.Height,
		result.FileSize,
	)

	return result
}
