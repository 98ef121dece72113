package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gyani-service/internal/app"
	"gyani-service/internal/chat"
	"gyani-service/internal/config"
	"gyani-service/internal/content"
	"gyani-service/internal/events"
	"gyani-service/internal/llm"
	"gyani-service/internal/market"
	"gyani-service/internal/trading"
	transport "gyani-service/internal/transport/http"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the Gyani API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := openResources(ctx, cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	if res.bunDB != nil {
		if err := runMigrations(ctx, res.bunDB); err != nil {
			return err
		}
		if err := seed(ctx, res.pool); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	publisher, err := newEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	progress := app.NewProgressService(res.progressBackend(cfg),
		app.WithCatalog(content.ModuleIDs()),
		app.WithEvents(publisher),
	)

	quizOpts := []app.QuizOption{}
	if cfg.Quiz.MaxQuestions > 0 {
		quizOpts = append(quizOpts, app.WithMaxQuestions(cfg.Quiz.MaxQuestions))
	}
	if cfg.Quiz.Bank != "" {
		quizOpts = append(quizOpts, app.WithBank(cfg.Quiz.Bank))
	}
	quiz := app.NewQuizService(res.sessionStore(cfg), res.bankRepository(cfg), progress, quizOpts...)

	providers, err := llm.NewProviders(ctx, llm.ConfigFromEnv(llm.DefaultConfig()))
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		glog.Infof("no chat provider keys set, chat answers come from local replies")
	}
	relay := chat.NewRelay(providers, chat.WithTimeout(config.Duration(cfg.Chat.Timeout, chat.DefaultTimeout)))

	feed := market.NewBroadcaster(market.NewFeed(nil, nil))
	go feed.Run(ctx, config.Duration(cfg.Market.Interval, market.DefaultInterval))

	api := transport.NewServer(transport.Deps{
		Quiz:        quiz,
		Progress:    progress,
		Assessments: app.NewAssessmentService(),
		Chat:        relay,
		Market:      feed,
		Trading:     trading.NewRegistry(time.Now),
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		glog.Infof("starting gyani service on :%s (progress backend %s)", finalPort, cfg.ProgressBackend())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		glog.Infof("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newEventPublisher publishes to Kafka when brokers are configured and
// otherwise to an in-process channel drained by the audit logger.
func newEventPublisher(ctx context.Context, cfg config.Config) (*events.Publisher, error) {
	if len(cfg.Events.Brokers) > 0 {
		return events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		})
	}
	publisher, bus := events.NewInProcess(cfg.Events.Topic)
	if err := events.Consume(ctx, bus, publisher.Topic(), events.LogEvent); err != nil {
		_ = publisher.Close()
		return nil, err
	}
	return publisher, nil
}
