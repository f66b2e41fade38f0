package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/pkg/adapters/lifecycle"
	"github.com/aretw0/minions/pkg/core"
)

var watchJSON bool

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Stream changes made to the store by other processes",
	Long: `Watch prints one line per record created, modified or deleted outside
this process. The optional pattern is a glob matched against record ids.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		c, err := openClient()
		if err != nil {
			return err
		}
		w, ok := c.Storage().(core.Watchable)
		if !ok {
			return fmt.Errorf("adapter %q does not support watching", cfg.Storage.Adapter)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src := lifecycle.WatchSource(w, pattern)
		if err := src.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes (Ctrl+C to stop)")

		out := cmd.OutOrStdout()
		for ev := range src.Events() {
			e, ok := ev.(core.Event)
			if !ok {
				continue
			}
			if watchJSON {
				if err := writeJSON(out, e); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(out, "%s %s\n", time.Unix(e.Timestamp, 0).Format(time.RFC3339), e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Output events as JSON")
}
