package cli

// #region imports
import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
)

// #endregion

// #region command

var chatSessionFlag string
var chatUserFlag string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session with the assistant",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			exitErr("startup", err)
		}
		defer a.close()

		sessionID := chatSessionFlag
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		fmt.Printf("session %s (type 'quit' to exit)\n", sessionID)
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "quit" || input == "exit" {
				break
			}

			resp, err := a.engine.ProcessTurn(context.Background(), sessionID, chatUserFlag, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
				continue
			}
			printResponse(resp)
		}
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatSessionFlag, "session", "s", "", "Session ID to resume (default: new session)")
	chatCmd.Flags().StringVarP(&chatUserFlag, "user", "u", "local", "User ID for the session")
	RootCmd.AddCommand(chatCmd)
}

// #endregion command

// #region output

func printResponse(resp *schema.Response) {
	if resp == nil {
		fmt.Println("(no response)")
		return
	}
	switch resp.Kind {
	case schema.ResponseAnswer:
		fmt.Println(resp.Answer.Answer)
		if len(resp.Answer.Sources) > 0 {
			fmt.Printf("  sources: %s (confidence %.2f)\n", strings.Join(resp.Answer.Sources, ", "), resp.Answer.Confidence)
		} else {
			fmt.Printf("  confidence %.2f\n", resp.Answer.Confidence)
		}
	case schema.ResponseSummary:
		fmt.Println(resp.Summary.Summary)
		fmt.Printf("  covered: %s\n", strings.Join(resp.Summary.DocumentIDs, ", "))
	case schema.ResponseCalculation:
		fmt.Printf("%s = %s\n", resp.Calculation.Expression, formatResult(resp.Calculation))
		fmt.Printf("  %s\n", resp.Calculation.Explanation)
	default:
		fmt.Printf("(unrecognized response kind %q)\n", resp.Kind)
	}
}

func formatResult(c *schema.CalculationResult) string {
	if c.Units != "" {
		return fmt.Sprintf("%g %s", c.Result, c.Units)
	}
	return fmt.Sprintf("%g", c.Result)
}

// #endregion output
