package cli

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// #endregion

// #region command

var turnSessionFlag string
var turnUserFlag string
var turnJSONFlag bool

var turnCmd = &cobra.Command{
	Use:   "turn [input...]",
	Short: "Process a single turn and print the response",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			exitErr("startup", err)
		}
		defer a.close()

		sessionID := turnSessionFlag
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		input := strings.Join(args, " ")

		resp, err := a.engine.ProcessTurn(context.Background(), sessionID, turnUserFlag, input)
		if err != nil {
			exitErr("process turn", err)
		}

		if turnJSONFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				exitErr("encode response", err)
			}
			return
		}
		fmt.Printf("session %s\n", sessionID)
		printResponse(resp)
	},
}

func init() {
	turnCmd.Flags().StringVarP(&turnSessionFlag, "session", "s", "", "Session ID to resume (default: new session)")
	turnCmd.Flags().StringVarP(&turnUserFlag, "user", "u", "local", "User ID for the session")
	turnCmd.Flags().BoolVar(&turnJSONFlag, "json", false, "Print the raw response JSON")
	RootCmd.AddCommand(turnCmd)
}

// #endregion command
