package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"os"
	"shortdrama/config"
	"shortdrama/repository"
)

func migrate(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			ctx := logger.WithContext(cmd.Context())

			repo, err := repository.NewRepo(config.DB)
			if err != nil {
				return err
			}
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			logger.Info().Msg("schema up to date")
			return nil
		},
	}
}
