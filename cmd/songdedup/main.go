// Command songdedup finds duplicate songs in a music library.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/deletion"
	"song-deduper/internal/fingerprint"
	"song-deduper/internal/library"
	"song-deduper/internal/report"
)

const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

// scanFlags are shared by every command that builds or loads the record store.
type scanFlags struct {
	prefix    string
	workers   int
	noRebuild bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "cache prefix for this collection (default CACHE_PREFIX or the OS prefix)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel indexing workers (default SCAN_WORKERS)")
	cmd.Flags().BoolVar(&f.noRebuild, "no-rebuild", false, "fail instead of rebuilding an unreadable cache")
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newRootCmd() *cobra.Command {
	var (
		scan       scanFlags
		deleteList string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "songdedup [root]",
		Short: "Report duplicate songs in a music library",
		Long: "songdedup indexes every audio file under root, caches the result, and reports\n" +
			"files with identical content and files with the same artist and title.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
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

			if deleteList != "" {
				store, err = applyDeleteList(ctx, a, deleteList, store, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			doc := report.Build(a.root, store, fingerprint.Comparator{})
			return writeReport(cmd.OutOrStdout(), format, doc)
		},
	}

	scan.register(cmd)
	cmd.Flags().StringVar(&deleteList, "delete-list", "", "file listing paths to delete before reporting, one per line")
	cmd.Flags().StringVar(&format, "format", formatText, "report format: text, markdown or html")

	cmd.AddCommand(newDiffCmd(), newServeCmd(), newClearCacheCmd())
	return cmd
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatMarkdown, formatHTML:
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text, markdown or html", format)
	}
}

func writeReport(w io.Writer, format string, doc report.Document) error {
	switch format {
	case formatMarkdown:
		return report.Markdown(w, doc)
	case formatHTML:
		return report.NewRenderer().HTML(w, doc)
	default:
		return report.Text(w, doc)
	}
}

// applyDeleteList deletes the listed files and persists the trimmed store.
// Skipped entries are printed to warn and never stop the batch.
func applyDeleteList(ctx context.Context, a *app, listPath string, store *library.RecordStore, warn io.Writer) (*library.RecordStore, error) {
	paths, err := deletion.ReadListFile(listPath)
	if err != nil {
		return nil, err
	}

	result, err := deletion.NewSynchronizer(a.root, a.repo).Sync(ctx, paths, store)
	for _, w := range result.Warnings {
		fmt.Fprintf(warn, "warning: %s\n", w)
	}
	if err != nil {
		return nil, err
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "delete list applied",
		"listed", len(paths), "deleted", len(result.Deleted), "warnings", len(result.Warnings))
	return result.Store, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
