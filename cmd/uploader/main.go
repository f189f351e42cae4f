package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mediavault/internal/client/orchestrator"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type options struct {
	apiURL          string
	owner           string
	fileConcurrency int
	partConcurrency int
	chunkThreshold  string
	retries         int
	allow           []string
	abortOnFailure  bool
	record          bool
	verbose         bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "uploader [flags] FILE...",
		Short: "Upload files through the mediavault upload api",
		Long: `Upload files through the mediavault upload api.

Files above the chunk threshold are sent as multipart uploads, every part
is signed and PUT directly to object storage. Smaller files use a single
presigned PUT.

Example:
  uploader --api http://localhost:8080 --allow image/* --record photo.png movie.mp4`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.apiURL, "api", "http://localhost:8080", "Base URL of the upload api")
	flags.StringVar(&opts.owner, "owner", "", "Owner id attached to stored records")
	flags.IntVar(&opts.fileConcurrency, "file-concurrency", orchestrator.DefaultFileConcurrency, "Files uploaded at the same time")
	flags.IntVar(&opts.partConcurrency, "part-concurrency", orchestrator.DefaultPartConcurrency, "Parts in flight per file")
	flags.StringVar(&opts.chunkThreshold, "chunk-threshold", humanize.IBytes(orchestrator.DefaultChunkThreshold), "Files larger than this use multipart (ex: 50MiB)")
	flags.IntVar(&opts.retries, "retries", orchestrator.DefaultMaxAttempts, "Attempts per part before the file fails")
	flags.StringSliceVar(&opts.allow, "allow", nil, "Allowed mimetypes, wildcards like image/* accepted (default any)")
	flags.BoolVar(&opts.abortOnFailure, "abort-on-failure", true, "Abort the multipart session of a failed file")
	flags.BoolVar(&opts.record, "record", false, "Store a file record for every uploaded file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log protocol steps")

	return cmd
}

func run(ctx context.Context, opts *options, paths []string, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	threshold, err := humanize.ParseBytes(opts.chunkThreshold)
	if err != nil {
		return fmt.Errorf("invalid --chunk-threshold: %w", err)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	sources, closeAll, err := openSources(paths)
	if err != nil {
		return err
	}
	defer closeAll()

	printer := newProgressPrinter(stdout)
	client := orchestrator.NewHTTPClient(opts.apiURL, opts.owner, &http.Client{Timeout: 10 * time.Minute})

	cfg := orchestrator.DefaultConfig()
	cfg.FileConcurrency = opts.fileConcurrency
	cfg.PartConcurrency = opts.partConcurrency
	cfg.ChunkThreshold = int64(threshold)
	cfg.MaxAttempts = opts.retries
	cfg.AllowedMimetypes = opts.allow
	cfg.AbortOnFailure = opts.abortOnFailure
	cfg.OnStateChange = printer.update

	orch := orchestrator.New(client, client, cfg, logger)
	if opts.record {
		orch.WithRecordStore(client)
	}

	result := <-orch.UploadFiles(ctx, sources)

	fmt.Fprintln(stdout)
	for _, done := range result.Succeeded {
		fmt.Fprintf(stdout, "ok    %s -> %s\n", done.ID, done.Key)
	}
	for _, failed := range result.Failed {
		fmt.Fprintf(stdout, "fail  %s: %s\n", failed.ID, describe(failed.Err))
	}
	fmt.Fprintf(stdout, "%d uploaded, %d failed\n", len(result.Succeeded), len(result.Failed))

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(result.Failed), len(sources))
	}
	return nil
}

// openSources opens every path, the returned func closes them
func openSources(paths []string) ([]orchestrator.Source, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	sources := make([]orchestrator.Source, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		files = append(files, f)

		info, err := f.Stat()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			closeAll()
			return nil, nil, fmt.Errorf("%s is a directory", path)
		}

		sources = append(sources, orchestrator.Source{
			ID:     path,
			Name:   filepath.Base(path),
			Size:   info.Size(),
			Reader: f,
		})
	}
	return sources, closeAll, nil
}

func describe(err error) string {
	var apiErr *orchestrator.APIError
	switch {
	case errors.Is(err, orchestrator.ErrMimetypeNotAllowed):
		return "mimetype not allowed"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("api returned %d: %s", apiErr.StatusCode, apiErr.Message)
	}
	return err.Error()
}
