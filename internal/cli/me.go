package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
)

// errConfirmRequired is returned by destructive commands run without --yes
var errConfirmRequired = errors.New("this cannot be undone; pass --yes to confirm")

func newMeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Settings of the logged in account",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return requireLogin()
		},
	}

	cmd.AddCommand(newMeShowCmd())
	cmd.AddCommand(newMeUpdateCmd())
	cmd.AddCommand(newMePasswordCmd())
	cmd.AddCommand(newMeDeleteCmd())

	return cmd
}

func newMeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := fetch(cmd.Context(), sess.CurrentUser)
			if err != nil {
				return err
			}
			out.Print(user)
			return nil
		},
	}
}

func newMeUpdateCmd() *cobra.Command {
	var fullName, email string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the account's team name or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := fetch(cmd.Context(), sess.CurrentUser)
			if err != nil {
				return err
			}

			before := validate.ProfileFormFrom(user)
			after := before
			if cmd.Flags().Changed("full-name") {
				after.FullName = fullName
			}
			if cmd.Flags().Changed("email") {
				after.Email = email
			}
			if errs := validate.ValidateProfile(&after); !errs.OK() {
				return invalid(errs)
			}
			if !validate.Dirty(before, after) {
				return errors.New("nothing to save: pass --full-name or --email with a new value")
			}

			updated, err := mutate(cmd.Context(), sess.Client().UpdateMe, after.Payload(), notify.ProfileUpdated, query.UsersKey)
			if err != nil {
				return err
			}
			sess.Invalidate()
			out.Print(updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "full-name", "", "New team name")
	cmd.Flags().StringVar(&email, "email", "", "New email")

	return cmd
}

func newMePasswordCmd() *cobra.Command {
	var form validate.PasswordForm

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Confirm = form.New
			if errs := validate.ValidatePasswordChange(&form); !errs.OK() {
				return invalid(errs)
			}
			_, err := mutate(cmd.Context(), sess.Client().UpdatePassword, form.Payload(), notify.PasswordUpdated)
			return err
		},
	}

	cmd.Flags().StringVar(&form.Current, "current", "", "Current password (required)")
	cmd.Flags().StringVar(&form.New, "new", "", "New password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

func newMeDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account with all its athletes and log out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errConfirmRequired
			}
			deleteMe := func(ctx context.Context, _ struct{}) (*client.Message, error) {
				return sess.Client().DeleteMe(ctx)
			}
			if _, err := mutate(cmd.Context(), deleteMe, struct{}{}, notify.AccountDeleted, query.UsersKey, query.AthletesKey); err != nil {
				return err
			}
			sess.Invalidate()
			return sess.Logout()
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")

	return cmd
}
