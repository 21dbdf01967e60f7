package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/mvaldr/kattscope/pkg/kattis"
	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Track solve progress in a local sqlite database",
}

var dbSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scrape your current progress and reconcile it with the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath := resolveDBPath(cmd)

		client, instance, err := connect(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()

		statsSpec, err := kattis.NewSpec(kattis.ViewStats, kattis.Options{})
		if err != nil {
			return err
		}
		stats, err := client.Stats(ctx, statsSpec)
		if err != nil {
			return err
		}

		// Difficulties come from the solved slice of the problem list.
		problemsSpec, err := kattis.NewSpec(kattis.ViewProblems, kattis.Options{
			ShowSolved:  true,
			ShowPartial: true,
		})
		if err != nil {
			return err
		}
		problems, err := client.Problems(ctx, problemsSpec)
		if err != nil {
			return err
		}
		difficulties := make(map[string]*float64, problems.Len())
		for _, p := range problems.All() {
			difficulties[p.ID] = p.Difficulty
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		user := client.Session().User()
		entries := storage.BuildEntries(instance, user, stats.All(), difficulties)
		changes, err := db.UpsertProgress(ctx, instance, user, entries)
		if err != nil {
			return err
		}

		fmt.Printf("synced %d solved problems, %d changes\n", len(entries), len(changes))
		for _, ch := range changes {
			fmt.Printf("  %-7s %s\n", ch.ChangeType, ch.ProblemID)
		}
		return nil
	},
}

var dbChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent progress changes (default: last 30 days)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath := resolveDBPath(cmd)
		days, _ := cmd.Flags().GetInt("days")
		instance, _ := rootCmd.PersistentFlags().GetString("instance")

		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		since := time.Now().AddDate(0, 0, -days)
		changes, err := db.ListRecentChanges(context.Background(), instance, "", since)
		if err != nil {
			return err
		}
		for _, c := range changes {
			ts := c.OccurredAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-7s  %s/%s  %s\n", ts, c.ChangeType, c.Instance, c.User, c.ProblemID)
		}
		return nil
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary numbers for the stored progress",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath := resolveDBPath(cmd)
		instance, _ := rootCmd.PersistentFlags().GetString("instance")
		user, _ := cmd.Flags().GetString("user")

		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		if user == "" {
			entries, err := db.ListEntries(ctx, storage.ListOptions{Instance: instance})
			if err != nil {
				return err
			}
			users := map[string]bool{}
			for _, e := range entries {
				users[e.User] = true
			}
			fmt.Printf("%d entries across %d users\n", len(entries), len(users))
			return nil
		}

		stats, err := db.AccountStats(ctx, instance, user)
		if err != nil {
			return err
		}
		fmt.Printf("%s/%s: %d solved, avg difficulty %.2f\n", instance, user, stats.Solved, record.Round2(stats.AvgDifficulty))
		return nil
	},
}

func resolveDBPath(cmd *cobra.Command) string {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = viper.GetString("dbpath")
	}
	if dbPath == "" {
		dbPath = "kattscope.sqlite"
	}
	return dbPath
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbSyncCmd)
	dbCmd.AddCommand(dbChangesCmd)
	dbCmd.AddCommand(dbStatsCmd)

	for _, c := range []*cobra.Command{dbSyncCmd, dbChangesCmd, dbStatsCmd} {
		c.Flags().String("dbpath", "", "Path to SQLite DB file (default: dbpath config key, then kattscope.sqlite in CWD)")
	}
	dbChangesCmd.Flags().Int("days", 30, "How many days back to show")
	dbStatsCmd.Flags().String("user", "", "Show stats for one user instead of the whole instance")
}
