package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/photobooth/internal"
)

// accessKeyEnvVars are checked in order; the second is the name used by
// the web frontend's .env files
var accessKeyEnvVars = []string{"UNSPLASH_ACCESS_KEY", "NEXT_PUBLIC_UNSPLASH_ACCESS_KEY"}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "photobooth [query]",
		Short: "Browse Unsplash photos in an endless grid",
		Long: `photobooth opens a window with a responsive grid of Unsplash photos.

Scrolling to the bottom loads the next page. Typing into the search box
switches to search results once you stop typing.

Examples:
  photobooth                      # Browse the editorial feed
  photobooth mountains            # Start with a search for "mountains"
  photobooth --per-page 15        # Load 15 photos per page`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.photobooth.yaml)")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")

	// Provider flags
	cmd.Flags().StringVar(&flags.AccessKey, "access-key", "", "Unsplash access key (default: $UNSPLASH_ACCESS_KEY)")
	cmd.Flags().StringVar(&flags.APIURL, "api-url", flags.APIURL, "Unsplash API base URL")
	cmd.Flags().IntVar(&flags.PerPage, "per-page", flags.PerPage, "Photos per page (1-30)")

	// Gallery flags
	cmd.Flags().DurationVar(&flags.Debounce, "debounce", flags.Debounce, "Delay after the last keystroke before searching")
	cmd.Flags().BoolVar(&flags.AlwaysShowOverlay, "always-show-overlay", false, "Always show author and likes instead of only on hover")
	cmd.Flags().IntVar(&flags.ThumbCacheSize, "thumb-cache", flags.ThumbCacheSize, "Number of decoded thumbnails kept in memory")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("unsplash.access_key", cmd.Flags().Lookup("access-key"))
	viper.BindPFlag("unsplash.api_url", cmd.Flags().Lookup("api-url"))
	viper.BindPFlag("unsplash.per_page", cmd.Flags().Lookup("per-page"))
	viper.BindPFlag("gallery.debounce", cmd.Flags().Lookup("debounce"))
	viper.BindPFlag("gallery.always_show_overlay", cmd.Flags().Lookup("always-show-overlay"))
	viper.BindPFlag("gallery.thumb_cache_size", cmd.Flags().Lookup("thumb-cache"))
	viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".photobooth" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".photobooth")
	}

	// PHOTOBOOTH_UNSPLASH_PER_PAGE overrides unsplash.per_page
	viper.SetEnvPrefix("PHOTOBOOTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetAccessKey retrieves the Unsplash access key from environment or config
func GetAccessKey() string {
	for _, name := range accessKeyEnvVars {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}

	return viper.GetString("unsplash.access_key")
}

// ResolveFlags fills flags the user did not set from the config file and
// environment. An explicit --access-key always wins.
func ResolveFlags(cmd *cobra.Command, flags *Flags, args []string) {
	if !cmd.Flags().Changed("access-key") {
		flags.AccessKey = GetAccessKey()
	}
	flags.APIURL = viper.GetString("unsplash.api_url")
	flags.PerPage = viper.GetInt("unsplash.per_page")
	flags.Debounce = viper.GetDuration("gallery.debounce")
	flags.AlwaysShowOverlay = viper.GetBool("gallery.always_show_overlay")
	flags.ThumbCacheSize = viper.GetInt("gallery.thumb_cache_size")
	flags.Debug = flags.Debug || viper.GetBool("debug")

	if len(args) > 0 {
		flags.Query = strings.TrimSpace(args[0])
	}
}
