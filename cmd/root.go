package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/internal/utils"
	"github.com/mvaldr/kattscope/pkg/kattis"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	 _         _   _
	| | ____ _| |_| |_ ___  ___ ___  _ __   ___
	| |/ / _` + "`" + ` | __| __/ __|/ __/ _ \| '_ \ / _ \
	|   < (_| | |_| |_\__ \ (_| (_) | |_) |  __/
	|_|\_\__,_|\__|\__|___/\___\___/| .__/ \___|
	                                |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kattscope",
	Short: "A read-only scraper for Kattis-style judge sites.",
	Long: LOGO + `kattscope logs in to a Kattis instance (open.kattis.com or a
course-centric deployment) and extracts problems, submission stats, ranklists
and courses as clean tables, right from your command line.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kattscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("instance", "i", "open", "Kattis instance: open, nus, or any <name>.kattis.com subdomain")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Site username/email (overrides the config file)")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Site password (overrides the config file)")
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".kattscope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.kattscope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("open.username", "")
	viper.SetDefault("open.password", "")
	viper.SetDefault("nus.username", "")
	viper.SetDefault("nus.password", "")
	viper.SetDefault("dbpath", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// instanceBaseURL maps the --instance flag to a site base URL.
func instanceBaseURL(instance string) string {
	if strings.Contains(instance, "://") {
		return instance
	}
	return "https://" + instance + ".kattis.com"
}

// connect resolves instance and credentials, then builds a logged-out client.
// Credentials come from the flags first, then the per-instance config keys.
func connect(cmd *cobra.Command) (*kattis.Client, string, error) {
	instance, _ := rootCmd.PersistentFlags().GetString("instance")
	username, _ := rootCmd.PersistentFlags().GetString("username")
	password, _ := rootCmd.PersistentFlags().GetString("password")
	proxy, _ := rootCmd.PersistentFlags().GetString("proxy")

	if username == "" {
		username = viper.GetString(instance + ".username")
	}
	if password == "" {
		password = viper.GetString(instance + ".password")
	}
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("no credentials for instance %q: set %s.username and %s.password in the config file or pass -u/-p", instance, instance, instance)
	}

	session := kattis.NewSession(instanceBaseURL(instance), username, password)
	if proxy != "" {
		if err := session.SetProxy(proxy); err != nil {
			return nil, "", fmt.Errorf("invalid proxy %q: %w", proxy, err)
		}
	}
	return kattis.NewClient(session), instance, nil
}
