package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"actionforge/db/migrations"
	gormrepo "actionforge/internal/adapter/repo/gorm"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "actionforge",
		Short:         "Idle action queue engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newWordsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			slog.SetDefault(logger)

			a, err := buildApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			s := server.Default(server.WithHostPorts(cfg.Addr))
			a.handler.RegisterRoutes(s)
			hlog.Infof("actionforge listening on %s (store=%s)", cfg.Addr, cfg.Store)
			s.Spin()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var showStatus bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			if cfg.Store != "postgres" {
				return fmt.Errorf("migrate needs the postgres store")
			}
			db, err := gormrepo.OpenPostgres(cfg.DSN, gormrepo.PoolOptions{LogSQL: cfg.LogSQL})
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if showStatus {
				statuses, err := gormrepo.MigrationStatuses(ctx, db, migrations.FS)
				if err != nil {
					return err
				}
				for _, st := range statuses {
					at := "pending"
					if st.AppliedAt != nil {
						at = st.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", st.Version, at)
				}
				return nil
			}
			applied, err := gormrepo.ApplyMigrations(ctx, db, migrations.FS)
			if err != nil {
				return err
			}
			hlog.Infof("applied %d migration(s): %s", len(applied), strings.Join(applied, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showStatus, "status", false, "list migrations and when they were applied")
	return cmd
}

func newWordsCmd() *cobra.Command {
	words := &cobra.Command{
		Use:   "words",
		Short: "Manage the local random word index",
	}
	var at int64
	publish := &cobra.Command{
		Use:   "publish <hex-word>",
		Short: "Record a revealed 32-byte random word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			word, err := parseWord(args[0])
			if err != nil {
				return err
			}
			if at == 0 {
				at = time.Now().Unix()
			}
			path := os.Getenv("ACTIONFORGE_WORDS_DB")
			if path == "" {
				path = "./data/words.db"
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return publishWord(ctx, path, at, word)
		},
	}
	publish.Flags().Int64Var(&at, "at", 0, "reveal time in unix seconds (default now)")
	words.AddCommand(publish)
	return words
}

func parseWord(raw string) ([32]byte, error) {
	var w [32]byte
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return w, fmt.Errorf("decode word: %w", err)
	}
	if len(b) != len(w) {
		return w, fmt.Errorf("word must be %d bytes, got %d", len(w), len(b))
	}
	copy(w[:], b)
	return w, nil
}
