package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/photobooth/internal"
	"codeberg.org/snonux/photobooth/internal/cli"
	"codeberg.org/snonux/photobooth/internal/gui"
	"codeberg.org/snonux/photobooth/internal/logger"
	"codeberg.org/snonux/photobooth/internal/unsplash"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(internal.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	cli.ResolveFlags(cmd, flags, args)
	if flags.Debug {
		logger.SetDebug(true)
	}

	if flags.AccessKey == "" {
		return fmt.Errorf("%w: set UNSPLASH_ACCESS_KEY or pass --access-key", unsplash.ErrMissingAccessKey)
	}

	// Mirror all log output into the in-app log panel
	logs := gui.NewLogBuffer(500)
	logger.AddWriter(logs.Writer())
	log := logger.New("main")

	client, err := unsplash.NewClient(flags.AccessKey,
		unsplash.WithBaseURL(flags.APIURL),
		unsplash.WithPerPage(flags.PerPage),
	)
	if err != nil {
		return err
	}

	app, err := gui.New(&gui.Config{
		InitialQuery:      flags.Query,
		Debounce:          flags.Debounce,
		AlwaysShowOverlay: flags.AlwaysShowOverlay,
		ThumbCacheSize:    flags.ThumbCacheSize,
	}, client, logs)
	if err != nil {
		return fmt.Errorf("failed to start gui: %w", err)
	}

	log.Info().
		Str("api_url", flags.APIURL).
		Int("per_page", client.PerPage()).
		Str("query", flags.Query).
		Msg("Starting PhotoBooth")

	app.Run()
	return nil
}
