package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joelkehle/markcheck/internal/bootstrap"
	"github.com/joelkehle/markcheck/internal/config"
	"github.com/joelkehle/markcheck/internal/httpapi"
	"github.com/joelkehle/markcheck/internal/index"
	"github.com/joelkehle/markcheck/internal/ingest"
	"github.com/joelkehle/markcheck/internal/report"
	"github.com/joelkehle/markcheck/internal/search"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "markcheck: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "markcheck",
		Short:        "Trademark/patent similarity index builder and checker",
		SilenceUsage: true,
	}
	cmd.AddCommand(newBuildCommand(), newServeCommand(), newCheckCommand())
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zcfg.Build()
}

func newBuildCommand() *cobra.Command {
	var dataDir, dbPath string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Ingest source exports and rebuild the index from scratch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir == "" {
				dataDir = cfg.DataDir
			}
			if dbPath == "" {
				dbPath = cfg.DBPath
			}
			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			builder, err := index.NewBuilder(dbPath)
			if err != nil {
				return err
			}
			runner := ingest.NewRunner(log)
			stats, err := runner.Run(dataDir, builder)
			if err != nil {
				builder.Abort()
				return err
			}
			if stats.FilesIngested == 0 && stats.FilesSkipped == 0 {
				builder.Abort()
				log.Info("nothing to ingest; previous index left untouched")
				return nil
			}
			if err := builder.Flush(); err != nil {
				builder.Abort()
				return err
			}
			if err := builder.RebuildFTS(); err != nil {
				builder.Abort()
				return err
			}
			if err := builder.Publish(); err != nil {
				return err
			}
			log.Info("index built",
				zap.String("path", dbPath),
				zap.Int("files", stats.FilesIngested),
				zap.Int("skipped", stats.FilesSkipped),
				zap.Int("marks", builder.MarkCount()),
				zap.Int("patents", builder.PatentCount()))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", "", "root directory to scan for source files (overrides MARKCHECK_DATA_DIR)")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the index file (overrides MARKCHECK_DB_PATH)")
	return cmd
}

func newServeCommand() *cobra.Command {
	var dbPath string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the check and health endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.DBPath
			}
			if port == 0 {
				port = cfg.Port
			}
			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			store := index.NewStore(dbPath)
			engine := search.NewEngine(store, nil)
			boot := bootstrap.NewService(dbPath, cfg.DBURL)
			handler := httpapi.NewServer(engine, boot, dbPath, cfg.DBURL != "", cfg.Origins(), log)

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", port),
				Handler: handler,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info("markcheck listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				return srv.Shutdown(context.Background())
			case err := <-errCh:
				return err
			}
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the index file (overrides MARKCHECK_DB_PATH)")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP listen port (overrides MARKCHECK_PORT)")
	return cmd
}

func newCheckCommand() *cobra.Command {
	var dbPath, country, classes, out, format string
	var noPatents bool
	cmd := &cobra.Command{
		Use:   "check <trademark>",
		Short: "Run one screening query offline and print or save the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.DBPath
			}

			engine := search.NewEngine(index.NewStore(dbPath), nil)
			resp, err := engine.Check(search.CheckRequest{
				Trademark:      args[0],
				Country:        country,
				Classes:        classes,
				IncludePatents: !noPatents,
			})
			if err != nil {
				return err
			}

			var rendered string
			switch format {
			case "json":
				blob, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return err
				}
				rendered = string(blob) + "\n"
			case "html":
				md := report.BuildMarkdown(resp, time.Now())
				rendered, err = report.RenderHTML(md)
				if err != nil {
					return err
				}
			default:
				rendered = report.BuildMarkdown(resp, time.Now())
			}

			if out == "" {
				fmt.Print(rendered)
				return nil
			}
			return os.WriteFile(out, []byte(rendered), 0o644)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the index file (overrides MARKCHECK_DB_PATH)")
	cmd.Flags().StringVar(&country, "country", "all", "country selector (uk, eu, us, all, uk & eu, row, ...)")
	cmd.Flags().StringVar(&classes, "classes", "", "class-code filter, e.g. \"9, 35, 42\"")
	cmd.Flags().StringVar(&out, "out", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown, html, or json")
	cmd.Flags().BoolVar(&noPatents, "no-patents", false, "skip the patent lookup")
	return cmd
}
