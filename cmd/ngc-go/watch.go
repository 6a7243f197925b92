package main

import (
	"context"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	compiler "ngc-template/packages/compiler/src"
	"ngc-template/packages/compiler/src/config"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Recompile the templates of a project whenever they change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return RunWatch(ctx, cmd.OutOrStdout(), rootArg(args), watchDebounce, settings)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", compiler.DefaultDebounce, "quiet period before recompiling")
	rootCmd.AddCommand(watchCmd)
}

// RunWatch prints a compile report for the project every time it changes,
// until ctx is done.
func RunWatch(ctx context.Context, w io.Writer, root string, debounce time.Duration, settings *config.Settings) error {
	c, err := compiler.NewCompiler(root, settings)
	if err != nil {
		return err
	}
	return c.Watch(ctx, debounce, func(result *compiler.Result, err error) {
		if err != nil {
			if ctx.Err() == nil {
				slog.Error("compilation failed", "error", err)
			}
			return
		}
		printReport(w, result)
	})
}
