package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/pkg/kattis"
)

// achievementsCmd represents the achievements command
var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show your fastest/shortest submission achievements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := kattis.NewSpec(kattis.ViewAchievements, kattis.Options{})
		if err != nil {
			return err
		}
		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, err := client.Achievements(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		return nil
	},
}

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show the site's suggested next problems per difficulty bucket",
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := kattis.NewSpec(kattis.ViewSuggestions, kattis.Options{})
		if err != nil {
			return err
		}
		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, err := client.Suggestions(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(suggestCmd)
}
