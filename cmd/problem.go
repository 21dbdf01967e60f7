package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/pkg/kattis"
)

// problemCmd represents the problem command
var problemCmd = &cobra.Command{
	Use:   "problem <id> [id...]",
	Short: "Show full details for one or more problems",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withStats, _ := cmd.Flags().GetBool("statistics")
		withSubs, _ := cmd.Flags().GetBool("submissions")

		spec, err := kattis.NewSpec(kattis.ViewProblem, kattis.Options{
			ProblemIDs:      args,
			WithStatistics:  withStats,
			WithSubmissions: withSubs,
		})
		if err != nil {
			return err
		}

		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, failed, err := client.ProblemDetails(context.Background(), spec)
		if err != nil {
			return err
		}

		fmt.Println(result.ToTable().Render())
		for _, detail := range result.All() {
			for _, stat := range detail.Statistics {
				fmt.Printf("\n%s: %s\n", detail.ID, stat.Description)
				for _, e := range stat.Entries {
					fmt.Printf("  %s\n", e.Name)
				}
			}
			if len(detail.Submissions) > 0 {
				fmt.Printf("\n%s: %d own submissions\n", detail.ID, len(detail.Submissions))
			}
		}
		for id, ferr := range failed {
			fmt.Printf("skipped %s: %v\n", id, ferr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(problemCmd)

	problemCmd.Flags().Bool("statistics", false, "Also fetch per-language fastest/shortest leaderboards")
	problemCmd.Flags().Bool("submissions", false, "Also fetch your own submissions for each problem")
}
