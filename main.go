package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jitendra-sudo/portfolio/internal/config"
	"github.com/jitendra-sudo/portfolio/internal/metrics"
	"github.com/jitendra-sudo/portfolio/internal/relay"
	"github.com/jitendra-sudo/portfolio/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port   string
		dbPath string
		driver string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:          "portfolio",
		Short:        "Serve the portfolio site and relay contact messages",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("db") {
				cfg.DatabasePath = dbPath
			}
			if flags.Changed("relay") {
				cfg.Relay.Driver = driver
			}
			if flags.Changed("debug") {
				cfg.Debug = debug
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (overrides DATABASE_PATH)")
	cmd.Flags().StringVar(&driver, "relay", "", "email relay: emailjs, smtp, resend or log (overrides RELAY_DRIVER)")
	cmd.Flags().BoolVar(&debug, "debug", false, "development logging and gin debug mode")

	return cmd
}

func setupLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return logger
}

// newServer wires the relay, analytics store and per-visitor sessions.
func newServer(cfg *config.Config, log *zap.Logger, rl relay.Relay, st *store.Store) (*server, error) {
	admin, err := newAdminConsole(cfg, st, log.Named("admin"))
	if err != nil {
		return nil, fmt.Errorf("init admin: %w", err)
	}

	recorder := &dispatchRecorder{store: st, hash: admin.hash, log: log}

	return &server{
		cfg:      cfg,
		log:      log,
		sessions: newSessions(rl, recorder, log.Named("contact")),
		admin:    admin,
	}, nil
}

// maintain drops idle visitor sessions and enforces visitor retention until ctx ends.
func (s *server) maintain(ctx context.Context) {
	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()
	purge := time.NewTicker(24 * time.Hour)
	defer purge.Stop()

	if _, err := s.admin.purgeOldVisitors(ctx); err != nil {
		s.log.Warn("visitor cleanup failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			if n := s.sessions.Sweep(s.cfg.SessionIdleTimeout); n > 0 {
				s.log.Debug("discarded idle sessions", zap.Int("count", n))
			}
			metrics.SessionsActive.Set(float64(s.sessions.Len()))
		case <-purge.C:
			if _, err := s.admin.purgeOldVisitors(ctx); err != nil {
				s.log.Warn("visitor cleanup failed", zap.Error(err))
			}
		}
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := setupLogger(cfg.Debug)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return err
	}

	rl, err := relay.New(cfg.Relay, log.Named("relay"))
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open database", zap.String("path", cfg.DatabasePath), zap.Error(err))
		return err
	}
	defer st.Close()

	srv, err := newServer(cfg, log, rl, st)
	if err != nil {
		return err
	}

	engine, err := srv.router()
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go srv.maintain(ctx)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", httpSrv.Addr), zap.String("relay", rl.Name()))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("listen failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	// Gives in-flight relay calls the configured timeout to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Relay.Timeout+5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	log.Info("server exiting")
	return nil
}
