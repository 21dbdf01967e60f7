package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/pkg/kattis"
)

// ranklistCmd represents the ranklist command
var ranklistCmd = &cobra.Command{
	Use:   "ranklist",
	Short: "Show a ranklist (users, countries, affiliations, challenge, nearby)",
	Long: `Shows one of the site's ranklists.

By default the top users are shown. --kind selects another variant;
--country and --affiliation narrow the countries/affiliations variants to
the users ranked within one of them.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		country, _ := cmd.Flags().GetString("country")
		affiliation, _ := cmd.Flags().GetString("affiliation")

		// Narrowing flags imply their variant.
		if country != "" && kind == string(kattis.RanklistUsers) {
			kind = string(kattis.RanklistCountries)
		}
		if affiliation != "" && kind == string(kattis.RanklistUsers) {
			kind = string(kattis.RanklistAffiliations)
		}

		spec, err := kattis.NewSpec(kattis.ViewRanklist, kattis.Options{
			Ranklist:    kattis.RanklistKind(kind),
			Country:     country,
			Affiliation: affiliation,
		})
		if err != nil {
			return err
		}

		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, err := client.Ranklist(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ranklistCmd)

	ranklistCmd.Flags().StringP("kind", "k", "users", "Ranklist variant: users, countries, affiliations, challenge, nearby")
	ranklistCmd.Flags().String("country", "", "Rank users within one country (name or code)")
	ranklistCmd.Flags().String("affiliation", "", "Rank users within one affiliation (name or domain code)")
}
