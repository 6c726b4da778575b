package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Team account administration (superuser only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return requireLogin()
		},
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersUpdateCmd())
	cmd.AddCommand(newUsersDeleteCmd())

	return cmd
}

func userLoader() *query.ListLoader[client.User] {
	return &query.ListLoader[client.User]{
		Cache:    sess.Cache(),
		Name:     query.UsersList,
		PageSize: query.UsersPageSize,
		Fetch: func(ctx context.Context, skip, limit int) ([]client.User, int, error) {
			res, err := sess.Client().ListUsers(ctx, client.Page{Skip: skip, Limit: limit})
			if err != nil {
				return nil, 0, err
			}
			return res.Data, res.Count, nil
		},
		OnError: errorHandler().Handle,
	}
}

func newUsersListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of team accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := userLoader().Load(cmd.Context(), page)
			if view.Err != nil {
				return reported(view.Err)
			}
			out.Print(view)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")

	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var form validate.UserForm
	var inactive bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a team account",
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Confirm = form.Password
			form.IsActive = !inactive
			if errs := validate.ValidateUserCreate(&form); !errs.OK() {
				return invalid(errs)
			}

			user, err := mutate(cmd.Context(), sess.Client().CreateUser, form.CreatePayload(), notify.UserCreated, query.UsersKey)
			if err != nil {
				return err
			}
			out.Print(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&form.FullName, "full-name", "", "Team name")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password, at least 8 characters (required)")
	cmd.Flags().BoolVar(&form.IsSuperuser, "superuser", false, "Grant administrator rights")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Create the account disabled")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var email, fullName, password string
	var superuser, active bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a team account; the password is kept unless --password is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			current, err := fetch(cmd.Context(), func(ctx context.Context) (*client.User, error) {
				return sess.Client().GetUser(ctx, id)
			})
			if err != nil {
				return err
			}

			form := validate.UserFormFrom(current)
			flags := cmd.Flags()
			if flags.Changed("email") {
				form.Email = email
			}
			if flags.Changed("full-name") {
				form.FullName = fullName
			}
			if flags.Changed("password") {
				form.Password = password
				form.Confirm = password
			}
			if flags.Changed("superuser") {
				form.IsSuperuser = superuser
			}
			if flags.Changed("active") {
				form.IsActive = active
			}
			if errs := validate.ValidateUserUpdate(&form); !errs.OK() {
				return invalid(errs)
			}

			update := func(ctx context.Context, in client.UserUpdate) (*client.User, error) {
				return sess.Client().UpdateUser(ctx, id, in)
			}
			user, err := mutate(cmd.Context(), update, form.UpdatePayload(), notify.UserUpdated, query.UsersKey)
			if err != nil {
				return err
			}
			out.Print(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().StringVar(&fullName, "full-name", "", "New team name")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "Administrator rights")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the account may log in")

	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a team account together with its athletes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errConfirmRequired
			}

			g := gateway(sess.Client().DeleteUser, notify.UserDeleted, query.UsersKey, query.AthletesKey)
			g.OnError = func(error) {
				out.Notify(notify.Failure(notify.UserDeleteFailed))
			}
			_, err := run(cmd.Context(), g, args[0])
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")

	return cmd
}
