package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"tarjousbot/pkg/config"
	"tarjousbot/pkg/logger"
	"tarjousbot/pkg/scraper"
	"tarjousbot/pkg/secret"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	stateDir   string
	webhookURL string
	origin     string
	threadPath string
)

// rootCmd runs one crawl when called without a subcommand. The job is
// meant to be invoked periodically by a scheduler; concurrent
// invocations are unsafe and must be serialized by the scheduler.
var rootCmd = &cobra.Command{
	Use:   "tarjousbot",
	Short: "Forum thread monitor that posts new messages to a webhook",
	Long: `Tarjousbot incrementally monitors a single forum thread, detects
posts it has not seen in any prior run, and delivers each one to a
configured webhook as an embed.

Progress is persisted as a cursor (last scanned page, highest delivered
post id) in the state directory, so repeated runs pick up where the
previous one left off. A delivery failure checkpoints the progress made
so far and still exits 0; scraping and fetch errors abort the run
without touching the cursor and exit 1.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCrawl,
}

// Execute runs the root command, printing a single descriptive line on
// the diagnostic stream for fatal errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .tarjousbot.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "directory for the cursor records and webhook.conf")
	rootCmd.Flags().StringVar(&webhookURL, "webhook-url", "", "webhook URL (overrides the secret store chain)")
	rootCmd.Flags().StringVar(&origin, "origin", "", "forum origin, e.g. https://bbs.io-tech.fi")
	rootCmd.Flags().StringVar(&threadPath, "thread-path", "", "thread path on the forum, e.g. /threads/151/")

	rootCmd.SetVersionTemplate(`tarjousbot {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(setWebhookCmd)
}

// loadConfig merges defaults, the config file, environment, and flags
func loadConfig() (*config.Config, error) {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if stateDir != "" {
		flags["state-dir"] = stateDir
	}
	if webhookURL != "" {
		flags["webhook-url"] = webhookURL
	}
	if origin != "" {
		flags["origin"] = origin
	}
	if threadPath != "" {
		flags["thread-path"] = threadPath
	}

	return config.Load(configFile, flags)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}

	url := cfg.Webhook.URL
	if url == "" {
		url, err = secret.NewResolver(cfg.State.Directory).Resolve()
		if err != nil {
			return err
		}
	}

	s, err := scraper.New(cfg, url)
	if err != nil {
		return err
	}

	return s.Run()
}
