package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/cadsense/internal/strutil"
	"github.com/hrygo/cadsense/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent planning runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		if !instanceProfile.IsStoreEnabled() {
			return errors.New("run history is disabled; set --driver or CADSENSE_DRIVER")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		runs, err := storeInstance.ListDrawingRuns(ctx, &store.FindDrawingRun{Limit: limit})
		if err != nil {
			return err
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", store.DefaultListLimit, "maximum number of runs to list")
}

func printRuns(w io.Writer, runs []*store.DrawingRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	for _, run := range runs {
		sent := "preview"
		if run.Sent {
			sent = "sent"
		}
		fmt.Fprintf(w, "%s  %s  %-8s  %-7s  %s\n",
			time.Unix(run.CreatedTs, 0).Format(time.RFC3339),
			run.UID,
			run.Source,
			sent,
			strutil.Truncate(run.Description, 60),
		)
	}
}
