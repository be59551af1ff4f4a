package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/config"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagAPI    string
	flagQuery  string
)

var rootCmd = &cobra.Command{
	Use:   "ideaforge",
	Short: "TUI browser for scored market opportunities",
	Long: `ideaforge mines community sources for problems people pay to solve,
scores them, and lets you browse the results in a filterable two-pane TUI.

Every filter change updates a shareable address; paste one back with --query
to reopen the exact same view.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagAPI, "api", "", "listing endpoint URL (overrides config)")
	rootCmd.Flags().StringVar(&flagQuery, "query", "", "initial filter address, e.g. \"viable=yes&sort=score\"")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	apiURL := cfg.APIURL
	if flagAPI != "" {
		apiURL = flagAPI
	}

	// --query is an address, decoded with the same forgiving codec the
	// browser itself uses: malformed input degrades to defaults.
	initial := filter.DecodeQuery(flagQuery)
	if initial.PageSize == filter.DefaultPageSize && cfg.PageSize > 0 {
		initial.PageSize = cfg.PageSize
		initial = filter.Normalize(initial)
	}

	return tui.Run(tui.RunOpts{
		Client:   listing.NewClient(apiURL),
		Initial:  initial,
		Debounce: cfg.Debounce(),
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ideaforge %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
