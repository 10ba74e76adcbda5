package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"foodvision-server-go/internal/app"
	"foodvision-server-go/internal/core/providers/genai"
	"foodvision-server-go/internal/domain/credential"
	"foodvision-server-go/internal/domain/detection"
	domainimage "foodvision-server-go/internal/domain/image"
	"foodvision-server-go/internal/domain/info"
	"foodvision-server-go/internal/domain/narration"
	"foodvision-server-go/internal/domain/report"
	"foodvision-server-go/internal/domain/video"
	platformconfig "foodvision-server-go/internal/platform/config"
	platformerrors "foodvision-server-go/internal/platform/errors"
	platformlogging "foodvision-server-go/internal/platform/logging"
	httptransport "foodvision-server-go/internal/transport/http"
	"foodvision-server-go/internal/transport/http/foodapi"
)

const shutdownTimeout = 10 * time.Second

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	configPath string

	config       *platformconfig.Config
	configOrigin string
	logger       *platformlogging.Logger
	pipeline     *app.Pipeline
}

// Run starts the whole service lifecycle: configuration, logging, pipeline
// wiring and the HTTP server, then blocks until shutdown.
func Run(ctx context.Context, configPath string) error {
	state := &appState{configPath: configPath}

	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}

	logger := state.logger
	defer logger.Close()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	return waitForShutdown(signalCtx, cancel, logger, group)
}

// InitGraph declares the startup steps in dependency order.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "pipeline:init",
			Title:     "Initialise food pipeline",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initPipelineStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "execute init steps", "nil bootstrap state")
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(platformerrors.KindBootstrap, step.ID, "missing execute function")
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if stderrors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader(state.configPath).Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "config:load", "failed to load configuration", err)
	}

	state.config = result.Config
	state.configOrigin = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "logging:init", "config not loaded")
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init", "failed to initialise logging", err)
	}

	state.logger = logger
	platformlogging.DefaultLogger = logger

	logger.InfoTag("Boot", "logging ready [%s] %s", state.config.Log.Level, state.configOrigin)
	return nil
}

func initPipelineStep(ctx context.Context, state *appState) error {
	if state.config == nil || state.logger == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "pipeline:init", "missing config/logger")
	}
	cfg := state.config
	logger := state.logger

	// Vision and text share the same key set, so one pool cools a bad
	// credential for both stages.
	pool, err := credential.NewPool(cfg.Vision.APIKeys, credential.WithCooldown(cfg.Pool.FailureCooldown.Std()))
	if err != nil {
		return err
	}

	normalizer, err := domainimage.NewNormalizer(&cfg.Security, logger)
	if err != nil {
		return err
	}

	visionClient := genai.NewClient(cfg.Vision, logger)
	detector, err := detection.NewDetector(visionClient, pool, detection.ModeGenerative, logger)
	if err != nil {
		return err
	}

	textClient := genai.NewClient(cfg.LLM, logger)
	aggregator, err := info.NewAggregator(textClient, pool, logger)
	if err != nil {
		return err
	}

	finder, err := video.NewFinder(ctx, cfg.Video, logger)
	if err != nil {
		return err
	}

	pipeline, err := app.New(app.Deps{
		Normalizer: normalizer,
		Detector:   detector,
		Info:       aggregator,
		Video:      finder,
		Report:     report.NewBuilder(logger),
		Speaker:    narration.NewNarrator(cfg.TTS, logger),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	state.pipeline = pipeline
	logger.InfoTag("Boot", "pipeline ready: %d credential(s), model %s", pool.Size(), cfg.Vision.ModelName)
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	cfg := state.config
	logger := state.logger

	router, err := httptransport.Build(httptransport.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	service, err := foodapi.NewService(state.pipeline, logger)
	if err != nil {
		return nil, err
	}
	service.Register(router.API)

	router.Engine.NoRoute(func(c *gin.Context) {
		httptransport.RespondError(c, http.StatusNotFound, "not found", nil)
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.IP + ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router.Engine,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "listening on http://%s", httpServer.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server stopped cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("Boot", "shutdown requested, cleaning up")

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("Boot", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("Boot", "all services stopped")
	case <-time.After(15 * time.Second):
		logger.ErrorTag("Boot", "shutdown timed out")
		return stderrors.New("shutdown timed out")
	}
	return nil
}
