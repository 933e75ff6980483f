package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "replay scenario.yaml...",
	Short: "Replay chat scenarios against the rule enforcer",
	Long: `Replay feeds the commands and messages of each scenario to a full
rule enforcer wired on an in-memory platform, then checks the notices,
deletions and errors it produced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if settle, _ := cmd.Flags().GetDuration("settle"); cmd.Flags().Changed("settle") {
			config.Settle = settle
		}
		color.Enable = config.Colours
		log := logs.GetLoggerFromString(config.LogLevel)

		var results []Result
		for _, path := range args {
			scenario, err := LoadScenario(path)
			if err != nil {
				return err
			}
			outcome, err := RunScenario(cmd.Context(), log, config, scenario)
			if err != nil {
				return fmt.Errorf("%s: %w", scenario.Name, err)
			}
			results = append(results, Result{Scenario: scenario, Outcome: outcome, Failures: outcome.Check(scenario.Expect)})
		}

		failed := Report(cmd.OutOrStdout(), results)
		if failed > 0 {
			return fmt.Errorf("%d scenario(s) failed", failed)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().Duration("settle", 200*time.Millisecond, "Time left to the sinks after the last step")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
