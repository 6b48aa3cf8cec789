// Command agentd serves one assistant's tool set over a websocket gateway.
// The assistant, listen address, and data directories come from AGENT_* env
// vars (see pkg/gateway/config).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/codeByunique/ten-days-of-voice-agents-2025/internal/dotenv"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/agent/tools"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/assistant/barista"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/assistant/fraud"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/assistant/grocery"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/assistant/sdr"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/assistant/tutor"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/assistant/wellness"
	"github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/config"
	gatewayserver "github.com/codeByunique/ten-days-of-voice-agents-2025/pkg/gateway/server"
)

// Static datasets under the shared data directory.
const (
	catalogFile      = "day7_food_catalog.json"
	fraudCasesFile   = "day6_fraud_cases.json"
	faqFile          = "day5_sdr_browserstack_faq.json"
	tutorContentFile = "day4_tutor_content.json"
)

type agentDeps struct {
	loadConfig    func() (config.Config, error)
	buildRegistry func(config.Config, *slog.Logger) (*tools.Registry, error)
	newGateway    func(config.Config, *tools.Registry, *slog.Logger) *gatewayserver.Server
	signalNotify  func(chan<- os.Signal, ...os.Signal)
	signalStop    func(chan<- os.Signal)
}

func defaultAgentDeps() agentDeps {
	return agentDeps{
		loadConfig:    config.LoadFromEnv,
		buildRegistry: buildRegistry,
		newGateway:    gatewayserver.New,
		signalNotify: func(c chan<- os.Signal, sig ...os.Signal) {
			signal.Notify(c, sig...)
		},
		signalStop: signal.Stop,
	}
}

// buildRegistry constructs the tool registry for the configured assistant.
// A missing static dataset is fatal here, before the listener starts.
func buildRegistry(cfg config.Config, logger *slog.Logger) (*tools.Registry, error) {
	switch cfg.Assistant {
	case config.AssistantBarista:
		return barista.New(cfg.DataDir, logger).Registry(), nil

	case config.AssistantGrocery:
		catalog, err := grocery.LoadCatalog(filepath.Join(cfg.SharedDataDir, catalogFile))
		if err != nil {
			return nil, err
		}
		return grocery.New(catalog, cfg.DataDir, logger).Registry(), nil

	case config.AssistantFraud:
		book, err := fraud.LoadBook(filepath.Join(cfg.SharedDataDir, fraudCasesFile), logger)
		if err != nil {
			return nil, err
		}
		return fraud.New(book, logger).Registry(), nil

	case config.AssistantSDR:
		faq, err := sdr.LoadFAQ(filepath.Join(cfg.SharedDataDir, faqFile))
		if err != nil {
			return nil, err
		}
		return sdr.New(faq, cfg.DataDir, logger).Registry(), nil

	case config.AssistantWellness:
		return wellness.New(cfg.DataDir, logger).Registry(), nil

	case config.AssistantTutor:
		content, err := tutor.LoadContent(filepath.Join(cfg.SharedDataDir, tutorContentFile))
		if err != nil {
			return nil, err
		}
		return tutor.New(content, logger).Registry(), nil

	default:
		return nil, fmt.Errorf("unknown assistant %q", cfg.Assistant)
	}
}

func buildHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}
}

func runAgent(ctx context.Context, logger *slog.Logger, deps agentDeps) error {
	if deps.loadConfig == nil {
		return errors.New("missing loadConfig dependency")
	}
	if deps.buildRegistry == nil {
		return errors.New("missing buildRegistry dependency")
	}
	if deps.newGateway == nil {
		return errors.New("missing newGateway dependency")
	}
	if deps.signalNotify == nil || deps.signalStop == nil {
		return errors.New("missing signal dependency")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry, err := deps.buildRegistry(cfg, logger)
	if err != nil {
		return fmt.Errorf("build %s assistant: %w", cfg.Assistant, err)
	}

	gw := deps.newGateway(cfg, registry, logger)
	httpSrv := buildHTTPServer(cfg, gw.Handler())

	logger.Info("starting agent gateway",
		"addr", cfg.Addr,
		"assistant", string(cfg.Assistant),
		"tools", registry.Names(),
	)

	listenErrCh := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrCh <- err
			return
		}
		listenErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	deps.signalNotify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer deps.signalStop(sigCh)

	select {
	case err := <-listenErrCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer waitCancel()
	if !gw.Sessions().Wait(waitCtx) {
		gw.Sessions().CancelAll()
	}

	if err := <-listenErrCh; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("agent gateway stopped")
	return nil
}

func runMain(ctx context.Context, stderr io.Writer, deps agentDeps) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if err := dotenv.LoadFile(".env.local"); err != nil {
		fmt.Fprintf(stderr, "agentd: %v\n", err)
		return 1
	}

	if err := runAgent(ctx, logger, deps); err != nil {
		fmt.Fprintf(stderr, "agentd: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(context.Background(), os.Stderr, defaultAgentDeps()))
}
