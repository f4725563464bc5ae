package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/spf13/cobra"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/fingerprint"
	"song-deduper/internal/http"
	"song-deduper/internal/report"
	"song-deduper/internal/service"
	"song-deduper/internal/storage"
)

func newDiffCmd() *cobra.Command {
	var (
		scan      scanFlags
		reference string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "diff [root] --reference-prefix PREFIX",
		Short: "List songs another collection has that this one lacks",
		Long: "diff compares this library with the cached record store of another collection\n" +
			"(for example the same library on another machine) by artist and title.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatMarkdown {
				return fmt.Errorf("unknown format %q: want text or markdown", format)
			}
			ctx, a, err := newApp(cmd.Context(), rootArg(args), scan.prefix)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			store, err := a.records(ctx, scan.workers, !scan.noRebuild)
			if err != nil {
				return err
			}

			svc := service.NewLibraryService(a.root, a.prefix, store, a.blobs, fingerprint.Comparator{})
			missing, err := svc.Missing(ctx, reference)
			if err != nil {
				return err
			}
			if format == formatMarkdown {
				return report.MissingMarkdown(cmd.OutOrStdout(), reference, missing)
			}
			return report.MissingText(cmd.OutOrStdout(), reference, missing)
		},
	}

	scan.register(cmd)
	cmd.Flags().StringVar(&reference, "reference-prefix", "", "cache prefix of the collection to compare against")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or markdown")
	_ = cmd.MarkFlagRequired("reference-prefix")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		scan scanFlags
		port string
	)

	cmd := &cobra.Command{
		Use:           "serve [root]",
		Short:         "Serve duplicate reports over HTTP",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := newApp(cmd.Context(), rootArg(args), scan.prefix)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			logger := contextutil.LoggerFromContext(ctx)

			store, err := a.records(ctx, scan.workers, !scan.noRebuild)
			if err != nil {
				return err
			}

			router := http.NewRouter(&http.Deps{
				Library:            service.NewLibraryService(a.root, a.prefix, store, a.blobs, fingerprint.Comparator{}),
				Blobs:              a.blobs,
				RecordsKey:         storage.RecordsKey(a.prefix),
				FingerprinterReady: a.printer.Available,
			})

			if port == "" {
				port = a.cfg.APIPort
			}
			srv := &nethttp.Server{
				Addr:              ":" + port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.InfoContext(ctx, "starting API server", "addr", srv.Addr, "entries", store.Len())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("API server failed: %w", err)
			case <-ctx.Done():
			}

			logger.InfoContext(ctx, "shutting down API server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("API server shutdown: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	scan.register(cmd)
	cmd.Flags().StringVar(&port, "port", "", "listen port (default API_PORT)")
	return cmd
}

func newClearCacheCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:           "clear-cache",
		Short:         "Delete the cached catalog and record store for a prefix",
		Long:          "clear-cache forces the next run to rescan the library, picking up added or removed files.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := newApp(cmd.Context(), "", prefix)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.catalog.Clear(ctx); err != nil {
				return err
			}
			if err := a.repo.Clear(ctx); err != nil {
				return err
			}
			contextutil.LoggerFromContext(ctx).InfoContext(ctx, "cache cleared",
				"prefix", a.prefix, "catalog", a.catalog.Key(), "records", a.repo.Key())
			fmt.Fprintf(cmd.OutOrStdout(), "cleared cache for prefix %s\n", a.prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "cache prefix to clear (default CACHE_PREFIX or the OS prefix)")
	return cmd
}
