package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/hannan/internal/crud"
	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "hannanctl",
		Short:         "Manage Hannan Agribusiness farm records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "environment file to load")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "records API base URL (overrides HANNAN_API_URL)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newModulesCmd(),
		newListCmd(a),
		newShowCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newSummaryCmd(a),
		newDashboardCmd(a),
		newUseCmd(a),
	)
	return root
}

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List record modules grouped by project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, project := range modules.Projects() {
				fmt.Fprintln(out, headerStyle.Render(project))
				for _, s := range modules.ForProject(project) {
					fmt.Fprintf(out, "  %-18s %s\n", s.Module, s.Title)
				}
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <module>",
		Short: "Show every record of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.container.Focus(ctx, args[0]); err != nil {
				return err
			}
			if err := a.finish(cmd.OutOrStdout()); err != nil {
				return err
			}
			schema := a.container.Presenter(args[0]).Schema()
			renderTable(cmd.OutOrStdout(), crud.RenderTable(schema, a.container.Records(args[0])))
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <module> <id>",
		Short: "Show one record with its derived values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.load(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.container.Select(rec)
			schema := a.container.Presenter(args[0]).Schema()
			renderDetails(cmd.OutOrStdout(), crud.RenderDetails(schema, rec, time.Now()))
			return nil
		},
	}
}

type writeFlags struct {
	file  string
	photo string
}

func (w *writeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&w.file, "file", "f", "", "YAML file of field values")
	cmd.Flags().StringVar(&w.photo, "photo", "", "image to attach to the record")
}

func newCreateCmd(a *app) *cobra.Command {
	var flags writeFlags
	cmd := &cobra.Command{
		Use:   "create <module> -f values.yaml",
		Short: "Create a record from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(flags.file)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.container.Focus(ctx, args[0]); err != nil {
				return err
			}
			a.container.AddNew()
			if err := fill(a.container, values); err != nil {
				return err
			}
			return a.submit(ctx, cmd.OutOrStdout(), flags.photo)
		},
	}
	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var flags writeFlags
	cmd := &cobra.Command{
		Use:   "update <module> <id> [-f values.yaml] [--photo image]",
		Short: "Change fields of an existing record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.file == "" && flags.photo == "" {
				return errors.New("nothing to update: pass --file or --photo")
			}
			values := map[string]any{}
			if flags.file != "" {
				var err error
				if values, err = readValues(flags.file); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			rec, err := a.load(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			a.container.Edit(rec)
			if err := fill(a.container, values); err != nil {
				return err
			}
			return a.submit(ctx, cmd.OutOrStdout(), flags.photo)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <module> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.container.Focus(ctx, args[0]); err != nil {
				return err
			}
			confirm := crud.ConfirmFunc(func(prompt string) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				return answer == "y" || answer == "yes"
			})
			if !a.container.Delete(ctx, confirm, args[1]) {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Cancelled"))
				return nil
			}
			return a.finish(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <module> <term>",
		Short: "Find records whose searchable fields contain term",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			presenter, err := a.presenter(args[0])
			if err != nil {
				return err
			}
			presenter.SearchRecords(cmd.Context(), strings.Join(args[1:], " "))
			if err := a.finish(cmd.OutOrStdout()); err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), crud.RenderTable(presenter.Schema(), a.container.Records(args[0])))
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <module>",
		Short: "Show record counts and totals of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presenter, err := a.presenter(args[0])
			if err != nil {
				return err
			}
			presenter.LoadStats(cmd.Context())
			if err := a.finish(cmd.OutOrStdout()); err != nil {
				return err
			}
			if stats, ok := a.container.Stats(args[0]); ok {
				renderStats(cmd.OutOrStdout(), stats)
			}
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "summary <YYYY-MM>",
		Short: "Calculate the monthly herd and money summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env := a.api.CalculateSummary(ctx, args[0])
			if !env.Success {
				return errors.New(env.Message)
			}
			schema, _ := modules.Lookup(modules.MonthlySummaries)
			renderDetails(cmd.OutOrStdout(), crud.RenderDetails(schema, env.Data, time.Now()))
			if !save {
				return nil
			}

			if err := a.container.Focus(ctx, modules.MonthlySummaries); err != nil {
				return err
			}
			a.container.AddNew()
			for name, value := range env.Data {
				if _, ok := schema.Field(name); !ok {
					continue
				}
				if err := a.container.SetField(name, models.FormatValue(value)); err != nil {
					return err
				}
			}
			return a.submit(ctx, cmd.OutOrStdout(), "")
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the summary as a monthly summary record")
	return cmd
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the admin overview across every module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env := a.api.Dashboard(cmd.Context())
			if !env.Success {
				return errors.New(env.Message)
			}
			out := cmd.OutOrStdout()
			o := env.Data
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Active goats"), o.ActiveGoats)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Pending reminders"), o.PendingReminders)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Unread notifications"), o.UnreadNotifications)
			names := make([]string, 0, len(o.Modules))
			for name := range o.Modules {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s %d\n", labelStyle.Render(name), o.Modules[name].Total)
			}
			return nil
		},
	}
}

func newUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use [project] [tab]",
		Short: "Show or change the remembered project and tab",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.container.Open(ctx)
			if len(args) > 0 {
				if err := a.container.SwitchProject(ctx, args[0]); err != nil {
					return err
				}
			}
			if len(args) > 1 {
				if err := a.container.SwitchTab(ctx, args[1]); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Project"), a.container.Project())
			tabs := a.container.Tabs()
			for i, tab := range tabs {
				if tab == a.container.Tab() {
					tabs[i] = headerStyle.Render("*" + tab)
				}
			}
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Tabs"), strings.Join(tabs, " "))
			return nil
		},
	}
}

func (a *app) presenter(module string) (*crud.Presenter, error) {
	p := a.container.Presenter(module)
	if p == nil {
		return nil, fmt.Errorf("unknown module %s", module)
	}
	return p, nil
}

// load focuses module and returns the loaded record with the given id.
func (a *app) load(ctx context.Context, module, id string) (models.Record, error) {
	if err := a.container.Focus(ctx, module); err != nil {
		return nil, err
	}
	if toast, ok := a.container.Toast(); ok && toast.Error {
		return nil, errors.New(toast.Message)
	}
	schema := a.container.Presenter(module).Schema()
	for _, rec := range a.container.Records(module) {
		if schema.ID(rec) == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%s %s not found", schema.Title, id)
}

func (a *app) submit(ctx context.Context, out io.Writer, photoPath string) error {
	var photo *crud.Photo
	if photoPath != "" {
		f, err := os.Open(photoPath)
		if err != nil {
			return fmt.Errorf("open photo: %w", err)
		}
		defer f.Close()
		photo = &crud.Photo{Filename: filepath.Base(photoPath), Data: f}
	}

	_, err := a.container.Submit(ctx, photo)
	if toastErr := a.finish(out); toastErr != nil {
		return toastErr
	}
	return err
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return values, nil
}

// fill copies values into the open form. The reminder keys become the form's
// reminder request instead of record fields.
func fill(c *crud.Container, values map[string]any) error {
	var remind bool
	var date, description string
	for name, value := range values {
		text := models.FormatValue(value)
		switch name {
		case models.KeySetReminder:
			remind = text == "true"
		case models.KeyReminderDate:
			date = text
		case models.KeyReminderDescription:
			description = text
		default:
			if err := c.SetField(name, text); err != nil {
				return err
			}
		}
	}
	if remind || date != "" {
		c.Form().SetReminder(date, description)
	}
	return nil
}
