package detection

import (
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"foodvision-server-go/internal/platform/errors"
)

// ConfidenceThreshold is the minimum confidence a detector-variant candidate
// must exceed to be retained.
const ConfidenceThreshold = 0.20

// ParseCandidates decodes the detector-variant model response, a JSON array
// of {name, confidence, region} objects. Models occasionally wrap the array
// in a markdown fence; the fence is stripped before parsing.
func ParseCandidates(raw string) ([]FoodIdentity, error) {
	payload := stripCodeFence(raw)
	if payload == "" {
		return nil, errors.New(errors.KindDetection, "detection.parse", "empty detector response")
	}

	var candidates []FoodIdentity
	if err := sonic.UnmarshalString(payload, &candidates); err != nil {
		return nil, errors.Wrap(errors.KindDetection, "detection.parse", "malformed detector response", err)
	}
	return candidates, nil
}

// FilterCandidates sorts candidates by descending confidence and retains
// those above the threshold. An empty result is the valid "no food detected"
// outcome, not an error.
func FilterCandidates(candidates []FoodIdentity) []FoodIdentity {
	filtered := make([]FoodIdentity, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence > ConfidenceThreshold {
			filtered = append(filtered, c)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Confidence > filtered[j].Confidence
	})
	return filtered
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}
	return trimmed
}
