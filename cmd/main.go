package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fender1992/RemoteFlow/internal/api"
	"github.com/Fender1992/RemoteFlow/internal/browser"
	"github.com/Fender1992/RemoteFlow/internal/clients/anthropic"
	"github.com/Fender1992/RemoteFlow/internal/clients/gemini"
	"github.com/Fender1992/RemoteFlow/internal/config"
	"github.com/Fender1992/RemoteFlow/internal/extraction"
	"github.com/Fender1992/RemoteFlow/internal/logger"
	"github.com/Fender1992/RemoteFlow/internal/metrics"
	"github.com/Fender1992/RemoteFlow/internal/notifier"
	"github.com/Fender1992/RemoteFlow/internal/repositories"
	"github.com/Fender1992/RemoteFlow/internal/services"
	"github.com/Fender1992/RemoteFlow/internal/sites"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

func buildExtractorFactory(ctx context.Context, cfg *config.Config) (extraction.Factory, func()) {

	siteConfigs := sites.DefaultConfigs()

	model := anthropic.Model(cfg.Worker.AnthropicModel)
	if model == "" {
		model = anthropic.ModelSonnet4
	}

	newAnthropicClient := func(apiKey string) *anthropic.Client {
		client := anthropic.NewClient(apiKey, model)
		client.SetMinuteRateLimit(cfg.Worker.AiMaxRequestsPerMinute)
		return client
	}

	if cfg.Worker.ExtractionMode == config.ModeGenerative {

		if cfg.Worker.GenerativeProvider == config.ProviderGemini {
			aiClient, err := gemini.NewClient(ctx, cfg.Worker.GeminiKey, gemini.Model15Flash)
			if err != nil {
				log.Fatalf("can't create AI client: %v", err)
			}
			aiClient.SetMinuteRateLimit(cfg.Worker.AiMaxRequestsPerMinute)

			// Gemini key comes from configuration only, so one client serves
			// every run regardless of the key the trigger request carried.
			return func(apiKey string) extraction.Extractor {
				return extraction.NewGenerativeExtractor(aiClient, siteConfigs)
			}, func() {}
		}

		return func(apiKey string) extraction.Extractor {
			return extraction.NewGenerativeExtractor(newAnthropicClient(apiKey), siteConfigs)
		}, func() {}
	}

	launcher, err := browser.NewLauncher()
	if err != nil {
		log.Fatalf("can't create browser launcher: %v", err)
	}

	factory := func(apiKey string) extraction.Extractor {
		return extraction.NewInteractiveExtractor(newAnthropicClient(apiKey), launcher, siteConfigs)
	}
	return factory, func() {
		if err := launcher.Close(); err != nil {
			log.Errorf("failed to close browser launcher: %v", err)
		}
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Server.MetricsPort)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	sessions := repositories.NewSessionsRepository(dbContext.DB)
	siteResults := repositories.NewSiteResultsRepository(dbContext.DB)
	jobs := repositories.NewJobsRepository(dbContext.DB)

	bus := EventBus.New()

	newExtractor, closeExtractor := buildExtractorFactory(ctx, cfg)
	defer closeExtractor()

	writer := services.NewJobWriter(jobs)
	runner := services.NewImportRunner(sessions, siteResults, writer, newExtractor,
		sites.DefaultConfigs(), cfg.Worker.AnthropicKey, bus)

	if cfg.Notifier.Enabled() {
		_, err = notifier.NewTelegram(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatID, bus)
		if err != nil {
			log.Fatalf("can't create telegram notifier: %v", err)
		}
	}

	if cfg.Worker.PollPendingSessions {
		poller := services.NewSessionPoller(sessions, runner)
		if err = poller.Start(ctx); err != nil {
			log.Fatalf("can't start session poller: %v", err)
		}
		defer poller.Stop()
	}

	server := api.NewServer(cfg.Server.Port, runner)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("api server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down api server: %v", err)
	}
	log.Info("Services stopped.")
}
