package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindDetection, "detect", "vision call failed",
				errors.New("connection refused")),
			contains: []string{"[detection:detect]", "vision call failed", "connection refused"},
		},
		{
			name:     "error without cause",
			err:      New(KindImage, "normalize", "unsupported format"),
			contains: []string{"[image:normalize]", "unsupported format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindVideo, "search", "wrapped", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should return the original error")
	}
}

func TestWrap_KeepsExistingKind(t *testing.T) {
	inner := New(KindImage, "normalize", "unsupported format")
	outer := Wrap(KindDetection, "detect", "stage failed", inner)

	if outer.Kind != KindImage {
		t.Errorf("Wrap rewrapped an already typed error: got kind %q", outer.Kind)
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct error kind match",
			err:      New(KindConfig, "pool", "no credentials configured"),
			kind:     KindConfig,
			expected: true,
		},
		{
			name:     "wrapped error kind match",
			err:      Wrap(KindInfo, "answer", "upstream failed", errors.New("cause")),
			kind:     KindInfo,
			expected: true,
		},
		{
			name:     "error kind mismatch",
			err:      New(KindVideo, "search", "message"),
			kind:     KindReport,
			expected: false,
		},
		{
			name:     "non-typed error",
			err:      errors.New("plain error"),
			kind:     KindConfig,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsKind(tt.err, tt.kind)
			if result != tt.expected {
				t.Errorf("IsKind() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindReport, "build", "boom")); got != KindReport {
		t.Errorf("KindOf() = %q, expected %q", got, KindReport)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf() = %q, expected %q", got, KindUnknown)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Errorf("KindOf(nil) = %q, expected %q", got, KindUnknown)
	}
}
