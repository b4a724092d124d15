package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-scene-raytracer/pkg/config"
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/output"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/watcher"
)

// watchDebounce is how long a scene file must be quiet before re-rendering
const watchDebounce = 200 * time.Millisecond

type options struct {
	envFile  string
	workers  int
	tileSize int
	resize   string
	watch    bool
	quiet    bool
}

// NewRootCommand builds the raytracer command
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "raytracer <scene-file> <output-file> [width height]",
		Short: "Render a scene description to an image",
		Long: `raytracer renders a text scene description (cam, set, mtl, sph, pln, trg, lgt)
into an image. The output format follows the file extension (.png, .jpg, .bmp, .tif)
and the output may be an s3://bucket/key destination.`,
		Args:          cobra.MatchAll(cobra.RangeArgs(2, 4), validateSizeArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Environment file with RAYTRACER_* settings")
	flags.IntVar(&opts.workers, "workers", 0, "Number of render workers (0 = all CPUs)")
	flags.IntVar(&opts.tileSize, "tile-size", config.DefaultTileSize, "Edge length of render tiles in pixels")
	flags.StringVar(&opts.resize, "resize", "", "Resize the rendered image to WIDTHxHEIGHT before saving")
	flags.BoolVar(&opts.watch, "watch", false, "Re-render whenever the scene file changes")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only report errors")

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func validateSizeArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 3 {
		return fmt.Errorf("width and height must be given together")
	}
	return nil
}

// parseSize returns the image size from the optional positional arguments
func parseSize(args []string, cfg *config.Config) (int, int, error) {
	if len(args) < 4 {
		return cfg.Width, cfg.Height, nil
	}
	width, err := strconv.Atoi(args[2])
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width %q: must be a positive integer", args[2])
	}
	height, err := strconv.Atoi(args[3])
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height %q: must be a positive integer", args[3])
	}
	return width, height, nil
}

// buildJob merges configuration, flags and arguments into a render job
func buildJob(cmd *cobra.Command, opts *options, args []string) (*renderJob, *config.Config, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, nil, err
	}

	width, height, err := parseSize(args, cfg)
	if err != nil {
		return nil, nil, err
	}

	job := &renderJob{
		scenePath:  args[0],
		outputPath: args[1],
		config: renderer.RenderConfig{
			Width:      width,
			Height:     height,
			TileSize:   cfg.TileSize,
			NumWorkers: cfg.Workers,
		},
	}
	if cmd.Flags().Changed("workers") {
		if opts.workers < 0 {
			return nil, nil, fmt.Errorf("invalid worker count %d", opts.workers)
		}
		job.config.NumWorkers = opts.workers
	}
	if cmd.Flags().Changed("tile-size") {
		if opts.tileSize <= 0 {
			return nil, nil, fmt.Errorf("invalid tile size %d", opts.tileSize)
		}
		job.config.TileSize = opts.tileSize
	}
	if opts.resize != "" {
		if job.resizeWidth, job.resizeHeight, err = output.ParseSize(opts.resize); err != nil {
			return nil, nil, err
		}
	}
	if _, err := output.FormatFromPath(job.outputPath); err != nil {
		return nil, nil, err
	}

	return job, cfg, nil
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	job, cfg, err := buildJob(cmd, opts, args)
	if err != nil {
		return err
	}

	var logger core.Logger = renderer.NewDefaultLogger()
	if opts.quiet {
		logger = core.NopLogger{}
	}
	saver := output.NewSaver(cfg.S3, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if !opts.watch {
		_, err := job.run(ctx, saver, logger)
		return err
	}
	return watchAndRender(ctx, job, saver, logger)
}

// watchAndRender renders once and again after every change to the scene file
// until ctx is cancelled. Render failures are reported and watching continues.
func watchAndRender(ctx context.Context, job *renderJob, saver *output.Saver, logger core.Logger) error {
	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan string, 1)
	err = fw.Watch([]string{job.scenePath}, func(path string) {
		select {
		case changes <- path:
		default: // A render is already pending
		}
	})
	if err != nil {
		return err
	}
	fw.Start()

	if _, err := job.run(ctx, saver, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", job.scenePath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			logger.Printf("Scene %s changed, re-rendering...\n", path)
			if _, err := job.run(ctx, saver, logger); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
