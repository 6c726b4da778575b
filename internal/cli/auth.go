package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
)

func newLoginCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login and save the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := validate.LoginForm{Username: email, Password: pass}
			if errs := validate.ValidateLogin(&form); !errs.OK() {
				return invalid(errs)
			}

			if err := sess.Login(cmd.Context(), form.Username, form.Password); err != nil {
				errorHandler().Handle(err)
				return reported(err)
			}

			user, err := fetch(cmd.Context(), sess.CurrentUser)
			if err != nil {
				return err
			}
			if out.json() {
				out.Print(user)
				return nil
			}
			out.PrintMessage(fmt.Sprintf("Logged in as %s", user.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&pass, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newSignupCmd() *cobra.Command {
	var form validate.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new team account",
		Long: `Register a new team account. Signing up does not log in; run
'regctl login' afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Confirm = form.Password
			if errs := validate.ValidateSignup(&form); !errs.OK() {
				return invalid(errs)
			}

			user, err := mutate(cmd.Context(), sess.Client().Signup, form.Payload(), notify.SignupSucceeded)
			if err != nil {
				return err
			}
			if out.json() {
				out.Print(user)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form.FullName, "full-name", "", "Team name")
	cmd.Flags().StringVar(&form.Email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sess.Logout(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newRecoverPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "recover-password",
		Short: "Send a password reset token to an account's email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := validate.ValidateRecover(email); !errs.OK() {
				return invalid(errs)
			}
			_, err := mutate(cmd.Context(), sess.Client().RecoverPassword, email, notify.RecoveryEmailSent)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	var form validate.ResetForm

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Confirm = form.Password
			if errs := validate.ValidateResetPassword(&form); !errs.OK() {
				return invalid(errs)
			}
			in := client.NewPassword{Token: form.Token, NewPassword: form.Password}
			_, err := mutate(cmd.Context(), sess.ResetPassword, in, notify.PasswordResetSuccess)
			return err
		},
	}

	cmd.Flags().StringVar(&form.Token, "reset-token", "", "Token from the recovery email (required)")
	cmd.Flags().StringVar(&form.Password, "new-password", "", "New password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("reset-token")
	_ = cmd.MarkFlagRequired("new-password")

	return cmd
}
