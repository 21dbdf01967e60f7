package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/pkg/kattis"
	"github.com/mvaldr/kattscope/pkg/record"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your accepted submissions, best one per problem",
	RunE: func(cmd *cobra.Command, _ []string) error {
		language, _ := cmd.Flags().GetString("language")
		byLanguage, _ := cmd.Flags().GetBool("by-language")

		spec, err := kattis.NewSpec(kattis.ViewStats, kattis.Options{Language: language})
		if err != nil {
			return err
		}

		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, err := client.Stats(context.Background(), spec)
		if err != nil {
			return err
		}

		fmt.Println(result.ToTable().Render())
		fmt.Printf("%d problems solved\n", result.Len())

		if byLanguage {
			counts := result.GroupCount(func(s record.Stat) string { return s.Language })
			for lang, n := range counts {
				fmt.Printf("  %-24s %d\n", lang, n)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("language", "L", "", "Only submissions in this language (filter code, see the languages command)")
	statsCmd.Flags().Bool("by-language", false, "Also print solved-problem counts per language")
}
