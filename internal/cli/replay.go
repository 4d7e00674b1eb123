package cli

// #region imports
import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/logging"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/replay"
)

// #endregion

// #region command

var replayVerboseFlag bool

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay recorded turns against scripted capabilities",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fx, err := replay.LoadFixture(args[0])
		if err != nil {
			exitErr("load fixture", err)
		}

		log := logging.Nop()
		if replayVerboseFlag {
			log, err = logging.New("debug", "")
			if err != nil {
				exitErr("build logger", err)
			}
		}

		summary, err := replay.Run(fx, log)
		if err != nil {
			exitErr("replay", err)
		}

		if fx.Description != "" {
			fmt.Println(fx.Description)
		}
		for i, r := range summary.Results {
			status := "PASS"
			if !r.Pass {
				status = "FAIL"
			}
			fmt.Printf("[%s] turn %d: %q -> stage=%s kind=%s\n", status, i+1, r.Input, r.Stage, r.Kind)
			if !r.Pass {
				fmt.Printf("       %s", r.Reason)
				if r.Err != "" {
					fmt.Printf(" (%s)", r.Err)
				}
				fmt.Println()
			}
		}
		fmt.Printf("%d/%d turns passed\n", summary.Passed, summary.Total)
		if summary.Passed != summary.Total {
			os.Exit(1)
		}
	},
}

func init() {
	replayCmd.Flags().BoolVarP(&replayVerboseFlag, "verbose", "v", false, "Log stage execution while replaying")
	RootCmd.AddCommand(replayCmd)
}

// #endregion command
