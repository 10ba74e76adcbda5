package report

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"foodvision-server-go/internal/domain/info"
	"foodvision-server-go/internal/domain/video"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
)

// FilenameSuffix is appended to the whitespace-normalised food name.
const FilenameSuffix = "_report.pdf"

// Section is one category heading plus its answer paragraph.
type Section struct {
	Category info.Category
	Answer   string
}

// Document is the ordered content of a report. Sections render in slice
// order; constraints and video render only when present.
type Document struct {
	FoodName    string
	Constraints []string
	Sections    []Section
	Video       *video.Result
}

// Builder renders report documents as PDF.
type Builder struct {
	logger *logging.Logger
}

// NewBuilder constructs a builder.
func NewBuilder(logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Builder{logger: logger}
}

// Filename derives the download name from the food name: whitespace runs
// become underscores, then the fixed suffix is appended.
func Filename(foodName string) string {
	return strings.Join(strings.Fields(foodName), "_") + FilenameSuffix
}

// Build renders the document. Layout order is fixed: title, optional
// constraints line, one heading plus paragraph per section in insertion
// order, optional trailing video section.
func (b *Builder) Build(doc Document) ([]byte, error) {
	if strings.TrimSpace(doc.FoodName) == "" {
		return nil, errors.New(errors.KindReport, "report.build", "food name is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, "Food Report: "+doc.FoodName, "", "L", false)
	pdf.Ln(4)

	if len(doc.Constraints) > 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "Underlying conditions: "+strings.Join(doc.Constraints, ", "), "", "L", false)
		pdf.Ln(4)
	}

	if len(doc.Sections) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, "Food Information:", "", "L", false)
		pdf.Ln(2)

		for _, section := range doc.Sections {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, string(section.Category)+":", "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, section.Answer, "", "L", false)
			pdf.Ln(3)
		}
	}

	if doc.Video != nil {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, "Preparation Video:", "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, doc.Video.Title, "", "L", false)
		pdf.MultiCell(0, 6, "Link: "+doc.Video.Link, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.KindReport, "report.build", "render PDF", err)
	}

	b.logger.DebugTag("Report", "built %d byte report for %s", buf.Len(), doc.FoodName)
	return buf.Bytes(), nil
}
