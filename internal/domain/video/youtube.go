package video

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"foodvision-server-go/internal/platform/config"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// NotFoundMessage is the user-facing text rendered when no preparation
// video exists. Absence of a video is a valid outcome, never an error.
const NotFoundMessage = "No preparation video found on YouTube."

// Result is a located preparation video.
type Result struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Finder locates preparation videos through the YouTube Data API.
type Finder struct {
	service *youtube.Service
	logger  *logging.Logger
}

// NewFinder constructs a finder. Extra client options are accepted so tests
// can point the service at a local endpoint.
func NewFinder(
	ctx context.Context,
	cfg config.VideoConfig,
	logger *logging.Logger,
	opts ...option.ClientOption,
) (*Finder, error) {
	if cfg.APIKey == "" && len(opts) == 0 {
		return nil, errors.New(errors.KindConfig, "video.new", "video search API key is not configured")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	clientOpts := make([]option.ClientOption, 0, len(opts)+2)
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.KindConfig, "video.new", "create video search client", err)
	}

	return &Finder{
		service: service,
		logger:  logger,
	}, nil
}

// FindPreparationVideo searches for a single preparation video. A nil
// result with nil error means nothing was found.
func (f *Finder) FindPreparationVideo(ctx context.Context, foodName string) (*Result, error) {
	query := fmt.Sprintf("How to prepare %s", foodName)

	response, err := f.service.Search.List([]string{"snippet"}).
		Q(query).
		MaxResults(1).
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(errors.KindVideo, "video.search", "video search failed", err)
	}

	if len(response.Items) == 0 {
		f.logger.InfoTag("Video", "no preparation video found for %q", foodName)
		return nil, nil
	}

	item := response.Items[0]
	if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
		return nil, errors.New(errors.KindVideo, "video.search", "video search returned an item without id or snippet")
	}

	result := &Result{
		Title: item.Snippet.Title,
		Link:  watchURLPrefix + item.Id.VideoId,
	}
	f.logger.DebugTag("Video", "found %q for %q", result.Title, foodName)
	return result, nil
}
