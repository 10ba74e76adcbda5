package info

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"foodvision-server-go/internal/domain/credential"
	"foodvision-server-go/internal/platform/errors"
	"foodvision-server-go/internal/platform/logging"
)

// TextClient submits a single standalone prompt to the text generation
// service using the given credential.
type TextClient interface {
	Complete(ctx context.Context, key credential.Credential, prompt string) (string, error)
}

// StageError carries the food name and category of a failed info call so the
// caller can retry that specific category without re-running detection.
type StageError struct {
	FoodName string
	Category Category
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("info %q for %q: %v", e.Category, e.FoodName, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Aggregator answers category-specific questions about an identified food
// through the text generation service. Every call is stateless: one prompt,
// no conversation history, no caching.
type Aggregator struct {
	client TextClient
	pool   *credential.Pool
	logger *logging.Logger
}

// NewAggregator constructs an aggregator.
func NewAggregator(client TextClient, pool *credential.Pool, logger *logging.Logger) (*Aggregator, error) {
	if client == nil {
		return nil, errors.New(errors.KindConfig, "info.new", "text client is required")
	}
	if pool == nil {
		return nil, errors.New(errors.KindConfig, "info.new", "credential pool is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	return &Aggregator{
		client: client,
		pool:   pool,
		logger: logger,
	}, nil
}

// BuildPrompt renders the fixed per-category question template. The health
// constraint clause is appended only when constraints are present.
func BuildPrompt(foodName string, category Category, constraints []string) string {
	constraintClause := ""
	if len(constraints) > 0 {
		constraintClause = fmt.Sprintf(
			" The person has these underlying conditions: %s.",
			strings.Join(constraints, ", "),
		)
	}

	return fmt.Sprintf(
		"You are a food detection expert. Give specific information about %s. "+
			"The user is asking: '%s'.%s "+
			"Provide the answer in a friendly, short, and informative tone.",
		foodName, category, constraintClause,
	)
}

// Answer asks the model one category question about the food. The response
// is trimmed of surrounding whitespace. Failures carry the food name and
// category via StageError.
func (a *Aggregator) Answer(
	ctx context.Context,
	foodName string,
	category Category,
	constraints []string,
) (string, error) {
	if !Valid(category) {
		return "", errors.Wrap(errors.KindInfo, "info.answer", "unknown category",
			&StageError{FoodName: foodName, Category: category, Err: fmt.Errorf("category %q is not recognised", category)})
	}

	prompt := BuildPrompt(foodName, category, constraints)

	key := a.pool.Select()
	response, err := a.client.Complete(ctx, key, prompt)
	if err != nil {
		if stderrors.Is(err, credential.ErrRejected) {
			a.logger.WarnTag("Info", "credential rejected by upstream, cooling it down")
			a.pool.ReportFailure(key)
		}
		return "", errors.Wrap(errors.KindInfo, "info.answer", "text model call failed",
			&StageError{FoodName: foodName, Category: category, Err: err})
	}

	a.logger.DebugTag("Info", "answered %q for %s", category, foodName)
	return strings.TrimSpace(response), nil
}
