package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/config"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/scan"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/store"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan sources once and exit",
	Long:  "Fetch every enabled source, score the results, and write them into the local store.",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result := scan.New(log).Run(ctx, cfg.EnabledSources())
		for _, e := range result.Errors {
			fmt.Printf("  [warn] %v\n", e)
		}

		if err := st.Upsert(result.Opportunities); err != nil {
			return fmt.Errorf("storing opportunities: %w", err)
		}
		if err := st.SetLastScan(); err != nil {
			log.WithError(err).Warn("recording scan time failed")
		}

		fmt.Printf("Scanned %d source(s), stored %d opportunity(ies).\n",
			len(cfg.EnabledSources()), len(result.Opportunities))
		return nil
	},
}
