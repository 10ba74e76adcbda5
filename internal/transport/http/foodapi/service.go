package foodapi

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodvision-server-go/internal/app"
	imagedomain "foodvision-server-go/internal/domain/image"
	"foodvision-server-go/internal/domain/info"
	"foodvision-server-go/internal/domain/report"
	"foodvision-server-go/internal/domain/video"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
	httptransport "foodvision-server-go/internal/transport/http"
)

const welcomeMessage = "Welcome to Nigerian Food Vision API. " +
	"Endpoints available: /detect_food, /food_info, /prepare_food, /generate_pdf"

// Pipeline is the slice of the application pipeline the handlers use.
type Pipeline interface {
	DetectFood(ctx context.Context, r io.Reader) (*app.DetectOutcome, error)
	FoodInfo(ctx context.Context, foodName string, category info.Category, constraints []string) (string, error)
	PrepareFood(ctx context.Context, foodName string) (*video.Result, error)
	BuildReport(ctx context.Context, doc report.Document) ([]byte, error)
	FullReport(ctx context.Context, req app.FullReportRequest) (*app.FullReportResult, error)
	Narrate(ctx context.Context, text string) ([]byte, error)
}

// Service is the HTTP transport for the food pipeline.
type Service struct {
	pipeline Pipeline
	logger   *logging.Logger
}

// NewService constructs the service.
func NewService(pipeline Pipeline, logger *logging.Logger) (*Service, error) {
	if pipeline == nil {
		return nil, errors.New(errors.KindConfig, "foodapi.new", "pipeline is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	return &Service{
		pipeline: pipeline,
		logger:   logger,
	}, nil
}

// Register attaches the food routes to the group.
func (s *Service) Register(router *gin.RouterGroup) {
	router.GET("/", s.handleRoot)
	router.POST("/detect_food", s.handleDetectFood)
	router.POST("/food_info", s.handleFoodInfo)
	router.POST("/prepare_food", s.handlePrepareFood)
	router.POST("/generate_pdf", s.handleGeneratePDF)
	router.POST("/full_report", s.handleFullReport)
	router.POST("/narrate", s.handleNarrate)

	s.logger.InfoTag("HTTP", "food routes registered")
}

func (s *Service) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

func (s *Service) handleDetectFood(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	lang := c.DefaultPostForm("lang", "english")

	file, err := fileHeader.Open()
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "cannot read uploaded image", nil)
		return
	}
	defer file.Close()

	outcome, err := s.pipeline.DetectFood(c.Request.Context(), file)
	if err != nil {
		s.logger.ErrorTag("HTTP", "detect_food failed: %v", err)
		httptransport.RespondStageError(c, err)
		return
	}

	resp := DetectResponse{Options: outcome.Options}
	if len(outcome.Identities) > 0 {
		resp.FoodName = outcome.Identities[0].Name
	}
	if len(outcome.Identities) > 1 {
		resp.Candidates = outcome.Identities
	}

	s.logger.InfoTag("HTTP", "detected %q (lang=%s)", resp.FoodName, lang)
	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleFoodInfo(c *gin.Context) {
	var req InfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "food_name and info_type are required", nil)
		return
	}

	answer, err := s.pipeline.FoodInfo(c.Request.Context(), req.FoodName, info.Category(req.InfoType), req.Diseases)
	if err != nil {
		s.logger.ErrorTag("HTTP", "food_info failed: %v", err)
		httptransport.RespondStageError(c, err)
		return
	}

	c.JSON(http.StatusOK, InfoResponse{
		FoodName: req.FoodName,
		InfoType: req.InfoType,
		Diseases: emptyIfNil(req.Diseases),
		Response: answer,
	})
}

func (s *Service) handlePrepareFood(c *gin.Context) {
	var req PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "food_name is required", nil)
		return
	}

	result, err := s.pipeline.PrepareFood(c.Request.Context(), req.FoodName)
	if err != nil {
		s.logger.ErrorTag("HTTP", "prepare_food failed: %v", err)
		httptransport.RespondStageError(c, err)
		return
	}

	resp := PrepareResponse{
		FoodName: req.FoodName,
		Diseases: emptyIfNil(req.Diseases),
	}
	if result == nil {
		resp.PreparationVideo = video.NotFoundMessage
	} else {
		resp.PreparationVideo = result
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleGeneratePDF(c *gin.Context) {
	var req PDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "food_name is required", nil)
		return
	}

	sections := make([]report.Section, 0, len(req.Info))
	for _, entry := range req.Info {
		sections = append(sections, report.Section{
			Category: info.Category(entry.Category),
			Answer:   entry.Answer,
		})
	}

	pdf, err := s.pipeline.BuildReport(c.Request.Context(), report.Document{
		FoodName:    req.FoodName,
		Constraints: req.Diseases,
		Sections:    sections,
		Video:       req.PreparationVideo,
	})
	if err != nil {
		s.logger.ErrorTag("HTTP", "generate_pdf failed: %v", err)
		httptransport.RespondStageError(c, err)
		return
	}

	s.servePDF(c, pdf, report.Filename(req.FoodName))
}

func (s *Service) handleFullReport(c *gin.Context) {
	var req FullReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "food_name is required", nil)
		return
	}

	categories := make([]info.Category, 0, len(req.Categories))
	for _, name := range req.Categories {
		categories = append(categories, info.Category(name))
	}

	res, err := s.pipeline.FullReport(c.Request.Context(), app.FullReportRequest{
		FoodName:    req.FoodName,
		Constraints: req.Diseases,
		Categories:  categories,
	})
	if err != nil {
		s.logger.ErrorTag("HTTP", "full_report failed: %v", err)
		httptransport.RespondStageError(c, err)
		return
	}

	s.servePDF(c, res.PDF, res.Filename)
}

func (s *Service) handleNarrate(c *gin.Context) {
	var req NarrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "text is required", nil)
		return
	}

	audio, err := s.pipeline.Narrate(c.Request.Context(), req.Text)
	if err != nil {
		s.logger.ErrorTag("HTTP", "narrate failed: %v", err)
		httptransport.RespondStageError(c, err)
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// servePDF streams the rendered bytes from a temp file that is removed once
// the response is written.
func (s *Service) servePDF(c *gin.Context, pdf []byte, filename string) {
	err := imagedomain.WithTempFile(pdf, ".pdf", func(path string) error {
		c.FileAttachment(path, filename)
		return nil
	})
	if err != nil {
		s.logger.ErrorTag("HTTP", "serving pdf failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to serve report", nil)
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
