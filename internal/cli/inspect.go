package cli

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/checkpoint"
)

// #endregion

// #region command

var inspectTranscriptFlag bool
var inspectLimitFlag int

var inspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Dump a session's checkpoint state and tool transcript",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			exitErr("startup", err)
		}
		defer a.close()

		sessionID := args[0]
		st, err := a.store.Load(context.Background(), sessionID)
		if err != nil {
			if errors.Is(err, checkpoint.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "no checkpoint for session %s\n", sessionID)
				os.Exit(1)
			}
			exitErr("load checkpoint", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			exitErr("encode state", err)
		}

		if !inspectTranscriptFlag {
			return
		}
		entries, err := a.transcript.BySession(sessionID, inspectLimitFlag)
		if err != nil {
			exitErr("load transcript", err)
		}
		fmt.Printf("\ntranscript (%d entries):\n", len(entries))
		for _, e := range entries {
			fmt.Printf("  [%s] turn=%s stage=%s tool=%s\n", e.CreatedAt.Format("15:04:05.000"), e.TurnID, e.Stage, e.Tool)
			if e.Input != "" {
				fmt.Printf("      in:  %s\n", e.Input)
			}
			if e.Output != "" {
				fmt.Printf("      out: %s\n", e.Output)
			}
		}
	},
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectTranscriptFlag, "transcript", "t", false, "Also print the tool transcript")
	inspectCmd.Flags().IntVar(&inspectLimitFlag, "limit", 200, "Maximum transcript entries to print")
	RootCmd.AddCommand(inspectCmd)
}

// #endregion command
