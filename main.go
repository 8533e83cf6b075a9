package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	exitFunc      = os.Exit
	runTUI        = RunTUI
	sourceFactory = newFeedSource
)

type options struct {
	configPath string
	once       bool
	exportOPML string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := runMain(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		exitFunc(1)
	}
}

func runMain(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCommand(stdin, stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(stdin io.Reader, stdout io.Writer, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "newsterminal",
		Short:         "Terminal board of RSS feeds grouped by category",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runBoard(cmd.Context(), opts, stdin, stdout)
			if err != nil {
				fmt.Fprintln(stderr, "error:", err)
			}
			return err
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.Flags().BoolVar(&opts.once, "once", false, "refresh once, print the board and exit")
	cmd.Flags().StringVar(&opts.exportOPML, "export-opml", "", "refresh once and write the feeds as OPML to `path`")
	return cmd
}

func runBoard(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, closer, err := openLogger(cfg)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	defer closer.Close()

	source, err := sourceFactory(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	logger.Info("starting", "source", cfg.Source, "base_url", cfg.BaseURL)
	app := NewApp(cfg, source, logger)

	if opts.exportOPML != "" {
		if err := app.RefreshFeeds(ctx); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		if err := app.ExportOPML(opts.exportOPML); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(stdout, "Exported %d feeds to %s\n", app.Snapshot().FeedCount(), opts.exportOPML)
		return nil
	}
	if opts.once {
		refreshErr := app.RefreshFeeds(ctx)
		fmt.Fprintln(stdout, render(app))
		if refreshErr != nil {
			return fmt.Errorf("refresh: %w", refreshErr)
		}
		return nil
	}

	if !isTerminalReader(stdin) || !isTerminalWriter(stdout) {
		return Run(ctx, app, stdin, stdout)
	}
	return runTUI(ctx, app)
}

func isTerminalReader(stream io.Reader) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func isTerminalWriter(stream io.Writer) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
