package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blog/internal/app"
	"blog/internal/config"
	"blog/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var (
	configPath     string
	addr           string
	dataPath       string
	backend        string
	watchTemplates bool
	verbose        bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "Flat-file blog server",
	Long: `Serves a small blog whose posts are kept in a single JSON document.

The document lives in a local file by default; the sqlite and s3 backends
keep the same document in a database row or an S3 object.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// флаги важнее файла и переменных окружения
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Server.Addr = addr
		}
		if flags.Changed("data") {
			cfg.Store.Path = dataPath
		}
		if flags.Changed("backend") {
			cfg.Store.Backend = backend
		}
		if flags.Changed("watch-templates") {
			cfg.Templates.Watch = watchTemplates
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "blog.yaml", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	rootCmd.Flags().StringVar(&dataPath, "data", "", "path to the posts document (file) or database (sqlite)")
	rootCmd.Flags().StringVar(&backend, "backend", "", "document backend: file, sqlite or s3")
	rootCmd.Flags().BoolVar(&watchTemplates, "watch-templates", false, "reload templates when they change")

	rootCmd.AddCommand(versionCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
