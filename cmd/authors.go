package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/pkg/kattis"
)

// authorsCmd represents the authors command
var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "List problem authors with problem counts and average difficulty",
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := kattis.NewSpec(kattis.ViewAuthors, kattis.Options{})
		if err != nil {
			return err
		}
		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, err := client.ProblemAuthors(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		return nil
	},
}

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List problem sources (contests, courses) with problem counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := kattis.NewSpec(kattis.ViewSources, kattis.Options{})
		if err != nil {
			return err
		}
		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, err := client.ProblemSources(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authorsCmd)
	rootCmd.AddCommand(sourcesCmd)
}
