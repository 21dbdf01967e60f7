package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/pkg/kattis"
)

// problemsCmd represents the problems command
var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List problems with your solve state",
	Long:  "Walks the full problem list and prints one row per problem, with difficulty, solve status and submission counts.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		solved, _ := cmd.Flags().GetBool("solved")
		partial, _ := cmd.Flags().GetBool("partial")
		tried, _ := cmd.Flags().GetBool("tried")
		untried, _ := cmd.Flags().GetBool("untried")
		lowDetail, _ := cmd.Flags().GetBool("low-detail")

		spec, err := kattis.NewSpec(kattis.ViewProblems, kattis.Options{
			ShowSolved:  solved,
			ShowPartial: partial,
			ShowTried:   tried,
			ShowUntried: untried,
			LowDetail:   lowDetail,
		})
		if err != nil {
			return err
		}

		client, _, err := connect(cmd)
		if err != nil {
			return err
		}

		if lowDetail {
			result, err := client.ProblemsLowDetail(context.Background(), spec)
			if err != nil {
				return err
			}
			fmt.Println(result.ToTable().Render())
			if n := result.Dropped(); n > 0 {
				fmt.Printf("dropped %d malformed rows\n", n)
			}
			return nil
		}

		result, err := client.Problems(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		if n := result.Dropped(); n > 0 {
			fmt.Printf("dropped %d malformed rows\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(problemsCmd)

	problemsCmd.Flags().Bool("solved", false, "Include solved problems")
	problemsCmd.Flags().Bool("partial", false, "Include partially solved problems")
	problemsCmd.Flags().Bool("tried", false, "Include tried but unsolved problems")
	problemsCmd.Flags().Bool("untried", false, "Include untried problems")
	problemsCmd.Flags().Bool("low-detail", false, "Fetch the trimmed list without per-user solve state (faster; cannot combine with --tried/--untried)")
}
