package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/decker502/affirm/pkg/app"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/embedded"
	"github.com/decker502/affirm/pkg/provider"
)

var (
	verbose     bool
	providerURL string
	mode        string
	emotion     string
	fullscreen  bool
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "affirm",
	Short: "Animated affirmation canvas",
	Long: `affirm shows one affirmation at a time, letter by letter, on a particle canvas.

Phrases come from an HTTP phrase provider (--provider-url or AFFIRM_PROVIDER_URL).
Without a provider the built-in fallback phrases are used.

Keys: B boids/fade, P pointer trail, H breathing, D debug, F11 fullscreen.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		embedded.Init(dataFS)

		gameApp, err := app.NewApp(app.Config{
			Verbose:         verbose,
			ProviderURL:     providerURL,
			ProviderTimeout: timeout,
			Mode:            mode,
			Emotion:         emotion,
			Fullscreen:      fullscreen,
		})
		if err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		defer gameApp.Close()

		ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
		ebiten.SetWindowTitle(config.WindowTitle)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetTPS(config.TicksPerSecond)

		return ebiten.RunGame(gameApp)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the phrase provider is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if providerURL == "" {
			return fmt.Errorf("no provider configured (use --provider-url or AFFIRM_PROVIDER_URL)")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		client := provider.NewHTTPClient(providerURL, timeout)
		if err := client.Health(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", client.BaseURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// bindFlags 环境变量作为命令行参数的默认值
func bindFlags(env config.EnvConfig) {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", env.Verbose, "enable verbose logging")
	flags.StringVar(&providerURL, "provider-url", env.ProviderURL, "phrase provider base URL")
	flags.DurationVar(&timeout, "timeout", env.ProviderTimeout, "provider request timeout")

	rootCmd.Flags().StringVar(&mode, "mode", env.VisualMode, "visual mode: fade or boids")
	rootCmd.Flags().StringVar(&emotion, "emotion", "", "skip the emotion prompt with this emotion")
	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start in fullscreen")
}

func main() {
	env, err := config.LoadEnvConfig()
	if err != nil {
		log.Fatalf("环境变量无效: %v", err)
	}
	bindFlags(env)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
