package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/config"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/scan"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/server"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the listing endpoint",
	Long: `Serve the opportunity listing API the browser talks to.

Scans run on the configured interval and on POST /api/scan.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	dbPath := config.DataPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	scanner := scan.New(log)
	runScan := func(ctx context.Context) error {
		result := scanner.Run(ctx, cfg.EnabledSources())
		if err := st.Upsert(result.Opportunities); err != nil {
			return fmt.Errorf("storing opportunities: %w", err)
		}
		if _, err := st.Prune(cfg.RetentionDuration()); err != nil {
			log.WithError(err).Warn("prune after scan failed")
		}
		if err := st.SetLastScan(); err != nil {
			log.WithError(err).Warn("recording scan time failed")
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d source(s) failed", len(result.Errors))
		}
		return nil
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(st, log, runScan).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scan immediately if the store is stale, then on the interval.
	go func() {
		if last, ok := st.LastScan(); !ok || time.Since(last) > cfg.ScanIntervalDuration() {
			if err := runScan(ctx); err != nil {
				log.WithError(err).Warn("startup scan incomplete")
			}
		}
		ticker := time.NewTicker(cfg.ScanIntervalDuration())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := runScan(ctx); err != nil {
					log.WithError(err).Warn("scheduled scan incomplete")
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
