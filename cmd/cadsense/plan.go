package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/cadsense/server/service/drawing"
)

var planCmd = &cobra.Command{
	Use:   "plan <description>",
	Short: "Plan a drawing and print the assembled work item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.TrimSpace(strings.Join(args, " "))
		if description == "" {
			return errors.New("description is required")
		}

		units, _ := cmd.Flags().GetString("units")
		format, _ := cmd.Flags().GetString("format")
		send, _ := cmd.Flags().GetBool("send")

		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			return err
		}
		if storeInstance != nil {
			defer storeInstance.Close()
		}

		svc, err := drawing.NewServiceFromProfile(instanceProfile, storeInstance, nil)
		if err != nil {
			return err
		}

		result, err := svc.Run(ctx, &drawing.RunRequest{
			Description: description,
			Units:       units,
			Format:      format,
			Send:        send,
		})
		if err != nil {
			return err
		}
		printRunResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	planCmd.Flags().String("units", "", "drawing units (default from CADSENSE_DEFAULT_UNITS, else meters)")
	planCmd.Flags().String("format", "", "output file format (default from CADSENSE_DEFAULT_FORMAT, else dwg)")
	planCmd.Flags().Bool("send", false, "submit the work item to Autodesk Design Automation")
}

func printRunResult(w io.Writer, result *drawing.RunResult) {
	fmt.Fprintf(w, "Title: %s\n", result.Title)
	fmt.Fprintf(w, "Summary: %s\n", result.Summary)
	fmt.Fprintf(w, "Source: %s (run %s)\n\n", result.Source, result.RunID)
	fmt.Fprintf(w, "Entities:\n%s\n\n", result.Entities)
	fmt.Fprintf(w, "Payload:\n%s\n\n", result.Payload)
	fmt.Fprintf(w, "Submission:\n%s\n", result.Submission)
}
