package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	journeyCmd "github.com/Alturino/journey/cart/cmd"
	"github.com/Alturino/journey/internal/config"
	"github.com/Alturino/journey/internal/constants"
	"github.com/Alturino/journey/internal/log"
)

func Start() {
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str(log.KeyAppName, constants.AppMain).
		Str(log.KeyTag, "main Start").
		Logger()

	bootstrap.Debug().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	bootstrap.Debug().Msg("added listener for SIGINT and SIGTERM")

	c = bootstrap.WithContext(c)

	var (
		configName string
		logPath    string
		sessionID  string
		locale     string
	)

	rootCmd := &cobra.Command{Short: "Trip planning journeys for the agency site"}
	rootCmd.PersistentFlags().StringVar(&configName, "config", constants.AppJourneyService, "config file name under ./env")

	serviceCmd := &cobra.Command{
		Use:   "journey",
		Short: "Run journey service",
		Run: func(cmd *cobra.Command, args []string) {
			c := cmd.Context()
			cfg := config.Get(c, configName)
			logger := log.Get(logPath, cfg.Application.Env).
				With().
				Str(log.KeyAppName, constants.AppJourneyService).
				Logger()
			journeyCmd.RunJourneyService(logger.WithContext(c), cfg)
		},
	}
	serviceCmd.Flags().StringVar(&logPath, "log-file", "/var/log/journey.log", "rotating log file")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a stored journey, or list sessions when --session is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			cfg := config.Get(c, configName)
			logger := zerolog.Ctx(c).Level(zerolog.WarnLevel)
			return journeyCmd.RunInspect(logger.WithContext(c), cfg, cmd.OutOrStdout(), sessionID, locale)
		},
	}
	inspectCmd.Flags().StringVar(&sessionID, "session", "", "session id")
	inspectCmd.Flags().StringVar(&locale, "locale", "", "en or fr, defaults to handoff.default_locale")

	rootCmd.AddCommand(serviceCmd, inspectCmd)
	if err := rootCmd.ExecuteContext(c); err != nil {
		bootstrap.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
