package foodapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"foodvision-server-go/internal/domain/detection"
	"foodvision-server-go/internal/domain/info"
	"foodvision-server-go/internal/domain/video"
)

// DetectResponse is the body returned by POST /detect_food.
type DetectResponse struct {
	FoodName   string                   `json:"food_name"`
	Options    []info.Category          `json:"options"`
	Candidates []detection.FoodIdentity `json:"candidates,omitempty"`
}

// InfoRequest is the body accepted by POST /food_info.
type InfoRequest struct {
	FoodName string   `json:"food_name" binding:"required"`
	InfoType string   `json:"info_type" binding:"required"`
	Diseases []string `json:"diseases"`
}

// InfoResponse echoes the request alongside the model's answer.
type InfoResponse struct {
	FoodName string   `json:"food_name"`
	InfoType string   `json:"info_type"`
	Diseases []string `json:"diseases"`
	Response string   `json:"response"`
}

// PrepareRequest is the body accepted by POST /prepare_food.
type PrepareRequest struct {
	FoodName string   `json:"food_name" binding:"required"`
	Diseases []string `json:"diseases"`
}

// PrepareResponse carries either a found video object or the literal
// not-found message in PreparationVideo.
type PrepareResponse struct {
	FoodName         string      `json:"food_name"`
	PreparationVideo interface{} `json:"preparation_video"`
	Diseases         []string    `json:"diseases"`
}

// InfoEntry is one category/answer pair of a report request.
type InfoEntry struct {
	Category string
	Answer   string
}

// InfoEntries decodes a JSON object while preserving its key order, so
// report sections render in the order the client sent them.
type InfoEntries []InfoEntry

func (e *InfoEntries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("info must be a JSON object, got %v", tok)
	}

	entries := InfoEntries{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("info value for %q must be a string: %w", key, err)
		}
		entries = append(entries, InfoEntry{Category: key, Answer: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = entries
	return nil
}

// PDFRequest is the body accepted by POST /generate_pdf.
type PDFRequest struct {
	FoodName         string        `json:"food_name" binding:"required"`
	Info             InfoEntries   `json:"info"`
	Diseases         []string      `json:"diseases"`
	PreparationVideo *video.Result `json:"preparation_video"`
}

// FullReportRequest is the body accepted by POST /full_report.
type FullReportRequest struct {
	FoodName   string   `json:"food_name" binding:"required"`
	Diseases   []string `json:"diseases"`
	Categories []string `json:"categories"`
}

// NarrateRequest is the body accepted by POST /narrate.
type NarrateRequest struct {
	Text string `json:"text" binding:"required"`
}
