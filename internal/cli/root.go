package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/session"
)

var (
	cfg  *Config
	sess *session.Session
	out  *Output
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "regctl",
		Short: "CLI tool for the competition registration API",
		Long: `regctl manages team accounts and athlete registrations through the
registration JSON API.

It supports signing in and out, password recovery, the signed-in account's
settings, user administration, athlete registration with an interactive
pager, and downloading the registration form.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			out = NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())

			var err error
			sess, err = session.New(newTokenStore(cfg), client.New(cfg.ServerURL), nil)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: REGCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Access token (env: REGCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: REGCTL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: REGCTL_OUTPUT)")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newRecoverPasswordCmd())
	rootCmd.AddCommand(newResetPasswordCmd())
	rootCmd.AddCommand(newMeCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newAthletesCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			if out == nil {
				out = NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			out.PrintError(err)
		}
		os.Exit(1)
	}
}
