package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hankerbiao/Registration-System/internal/console/client"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
)

func newAthletesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "athletes",
		Short: "Athlete registration commands",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return requireLogin()
		},
	}

	cmd.AddCommand(newAthletesListCmd())
	cmd.AddCommand(newAthletesBrowseCmd())
	cmd.AddCommand(newAthletesCreateCmd())
	cmd.AddCommand(newAthletesUpdateCmd())
	cmd.AddCommand(newAthletesDeleteCmd())
	cmd.AddCommand(newAthletesDownloadCmd())

	return cmd
}

func athleteLoader() *query.ListLoader[client.Athlete] {
	return &query.ListLoader[client.Athlete]{
		Cache:    sess.Cache(),
		Name:     query.AthletesList,
		PageSize: query.AthletesPageSize,
		Fetch: func(ctx context.Context, skip, limit int) ([]client.Athlete, int, error) {
			res, err := sess.Client().ListAthletes(ctx, client.Page{Skip: skip, Limit: limit})
			if err != nil {
				return nil, 0, err
			}
			return res.Data, res.Count, nil
		},
		OnError: errorHandler().Handle,
	}
}

func newAthletesListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of athletes",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := athleteLoader().Load(cmd.Context(), page)
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

// athleteFlags binds one string flag per athlete attribute
type athleteFlags map[string]*string

var athleteFieldOrder = append([]string{validate.FieldName}, athleteColumns...)

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func addAthleteFlags(fs *pflag.FlagSet, defaults client.AthleteFields) athleteFlags {
	flags := athleteFlags{}
	for _, field := range athleteFieldOrder {
		flags[field] = fs.String(flagName(field), athleteValue(defaults, field), validate.AthleteLabels[field])
	}
	return flags
}

// apply copies the flags set on the command line onto f
func (a athleteFlags) apply(fs *pflag.FlagSet, f *client.AthleteFields) {
	for _, field := range athleteFieldOrder {
		if fs.Changed(flagName(field)) {
			validate.SetAthleteField(f, field, strings.TrimSpace(*a[field]))
		}
	}
}

func newAthletesCreateCmd() *cobra.Command {
	var flags athleteFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register an athlete",
		Long: `Register an athlete. Every event defaults to 不参加; gender defaults
to 男 and the kumite category to 甲组.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := validate.DefaultAthlete()
			flags.apply(cmd.Flags(), &fields)
			if errs := validate.ValidateAthlete(fields); !errs.OK() {
				return invalid(errs)
			}

			athlete, err := mutate(cmd.Context(), sess.Client().CreateAthlete, fields, notify.AthleteCreated, query.AthletesKey, query.UsersKey)
			if err != nil {
				return err
			}
			out.Print(athlete)
			return nil
		},
	}

	flags = addAthleteFlags(cmd.Flags(), validate.DefaultAthlete())
	_ = cmd.MarkFlagRequired(flagName(validate.FieldName))
	_ = cmd.MarkFlagRequired(flagName(validate.FieldIDNumber))

	return cmd
}

func newAthletesUpdateCmd() *cobra.Command {
	var flags athleteFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an athlete; only the given attributes are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			before, err := fetch(cmd.Context(), func(ctx context.Context) (*client.Athlete, error) {
				return sess.Client().GetAthlete(ctx, id)
			})
			if err != nil {
				return err
			}

			after := before.AthleteFields
			flags.apply(cmd.Flags(), &after)
			if errs := validate.ValidateAthlete(after); !errs.OK() {
				return invalid(errs)
			}

			update := func(ctx context.Context, p client.AthletePatch) (*client.Athlete, error) {
				return sess.Client().UpdateAthlete(ctx, id, p)
			}
			athlete, err := mutate(cmd.Context(), update, validate.AthletePatch(before.AthleteFields, after), notify.AthleteUpdated, query.AthletesKey)
			if err != nil {
				return err
			}
			out.Print(athlete)
			return nil
		},
	}

	flags = addAthleteFlags(cmd.Flags(), client.AthleteFields{})

	return cmd
}

func newAthletesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an athlete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errConfirmRequired
			}

			g := gateway(sess.Client().DeleteAthlete, notify.AthleteDeleted, query.AthletesKey, query.UsersKey)
			g.OnError = func(error) {
				out.Notify(notify.Failure(notify.AthleteDeleteFailed))
			}
			_, err := run(cmd.Context(), g, args[0])
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")

	return cmd
}

func newAthletesDownloadCmd() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the registration form spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := sess.Client().DownloadForm(cmd.Context())
			if err != nil {
				errorHandler().Handle(err)
				out.Notify(notify.Toast{Level: notify.LevelError, Title: notify.DownloadFailedTitle, Description: notify.DownloadFailed})
				return reported(err)
			}
			defer func() { _ = dl.Body.Close() }()

			path := dest
			if path == "" {
				path = filepath.Base(dl.FileName)
			}
			if err := writeFile(path, dl.Body); err != nil {
				return fmt.Errorf("failed to save %s: %w", path, err)
			}

			out.Notify(notify.Success(notify.FormDownloaded))
			if out.json() {
				out.Print(map[string]string{"file": path})
			} else {
				out.PrintMessage("Saved " + path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "out", "", "Destination file (default: the server's file name)")

	return cmd
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
