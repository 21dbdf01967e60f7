package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/mvaldr/kattscope/pkg/kattis"
	"github.com/mvaldr/kattscope/pkg/storage"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the language filter codes the site accepts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLookup(cmd, "languages", func(ctx context.Context, client *kattis.Client) (map[string]string, error) {
			languages, err := client.Languages(ctx)
			if err != nil {
				return nil, err
			}
			return invert(languages), nil
		})
	},
}

// countriesCmd represents the countries command
var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the country codes the site knows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLookup(cmd, "countries", func(ctx context.Context, client *kattis.Client) (map[string]string, error) {
			return client.Countries(ctx)
		})
	},
}

// affiliationsCmd represents the affiliations command
var affiliationsCmd = &cobra.Command{
	Use:   "affiliations",
	Short: "List the affiliation codes the site knows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLookup(cmd, "affiliations", func(ctx context.Context, client *kattis.Client) (map[string]string, error) {
			return client.Affiliations(ctx)
		})
	},
}

// runLookup resolves one code->name lookup table, going through the sqlite
// cache when a dbpath is configured. Lookup tables change rarely, so a cached
// copy saves a login plus a scrape per run; --refresh forces a rescrape.
func runLookup(cmd *cobra.Command, kind string, fetch func(context.Context, *kattis.Client) (map[string]string, error)) error {
	ctx := context.Background()
	instance, _ := rootCmd.PersistentFlags().GetString("instance")
	refresh, _ := cmd.Flags().GetBool("refresh")

	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = viper.GetString("dbpath")
	}

	var db *storage.DB
	if dbPath != "" {
		var err error
		if db, err = storage.Open(dbPath); err != nil {
			return err
		}
		defer db.Close()
	}

	values, err := lookupWithCache(ctx, db, instance, kind, refresh, func() (map[string]string, error) {
		client, _, err := connect(cmd)
		if err != nil {
			return nil, err
		}
		return fetch(ctx, client)
	})
	if err != nil {
		return err
	}
	printLookup(values)
	return nil
}

// lookupWithCache serves a lookup table from the cache when possible and
// refreshes the cache after every scrape. A nil db means no caching.
func lookupWithCache(ctx context.Context, db *storage.DB, instance, kind string, refresh bool, fetch func() (map[string]string, error)) (map[string]string, error) {
	if db != nil && !refresh {
		cached, err := db.Lookup(ctx, instance, kind)
		if err != nil {
			return nil, err
		}
		if len(cached) > 0 {
			return cached, nil
		}
	}

	values, err := fetch()
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := db.SaveLookup(ctx, instance, kind, values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func printLookup(m map[string]string) {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("%-32s %s\n", code, m[code])
	}
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(affiliationsCmd)

	for _, c := range []*cobra.Command{languagesCmd, countriesCmd, affiliationsCmd} {
		c.Flags().String("dbpath", "", "Cache the lookup table in this SQLite DB (default: dbpath config key)")
		c.Flags().Bool("refresh", false, "Scrape the site even when a cached copy exists")
	}
}
