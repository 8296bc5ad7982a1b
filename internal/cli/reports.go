package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"

	"github.com/spf13/cobra"
)

func newReportsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Medical report commands (categories, sections, items, values)",
	}
	cmd.AddCommand(newReportsCategoriesCmd(app))
	cmd.AddCommand(newReportsSectionsCmd(app))
	cmd.AddCommand(newReportsItemsCmd(app))
	cmd.AddCommand(newReportsValuesCmd(app))
	cmd.AddCommand(newReportsShowCmd(app))
	cmd.AddCommand(newReportsAddCmd(app))
	cmd.AddCommand(newReportsEditCmd(app))
	cmd.AddCommand(newReportsDeleteCmd(app))
	cmd.AddCommand(newReportsDeleteAttachmentCmd(app))
	cmd.AddCommand(newReportsAttachmentURLCmd(app))
	return cmd
}

func newReportsCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List report categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			rows, err := app.client.Categories(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": categoryRows(rows)})
		},
	}
}

func newReportsSectionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <category-id>",
		Short: "List the sections of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			categoryID, err := reports.ParseID("category", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			rows, err := app.client.SectionsByCategory(ctx, categoryID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sectionRows(rows)})
		},
	}
}

func newReportsItemsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "items <section-id>",
		Short: "List the items of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sectionID, err := reports.ParseID("section", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			rows, err := app.client.ItemsBySection(ctx, sectionID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": itemRows(rows)})
		},
	}
}

func newReportsValuesCmd(app *App) *cobra.Command {
	var xlsxPath, name string

	cmd := &cobra.Command{
		Use:   "values <item-id>",
		Short: "List the recorded values of an item (newest first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			itemID, err := reports.ParseID("item", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			values, err := app.client.ValuesByItem(ctx, itemID)
			if err != nil {
				return writeErr(cmd, err)
			}
			reports.SortValues(values)

			if xlsxPath != "" {
				if name == "" && len(values) > 0 {
					name = values[0].ReportItemName
				}
				if err := writeXLSX(xlsxPath, name, values, app.cfg.Location()); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"path": xlsxPath,
					"rows": len(values),
				}})
			}
			return writeOut(cmd, app, map[string]any{"data": valueRows{values: values, loc: app.cfg.Location()}})
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the values to an .xlsx file instead of stdout")
	cmd.Flags().StringVar(&name, "name", "", "Sheet name for --xlsx (default: the item name)")
	return cmd
}

func writeXLSX(path, name string, values []model.ReportItemValue, loc *time.Location) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return reports.ExportXLSX(f, name, values, loc)
}

func newReportsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id> <value-id>",
		Short: "Show one recorded value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			itemID, err := reports.ParseID("item", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			valueID, err := reports.ParseID("value", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			v, err := reports.FindValue(ctx, app.client, itemID, valueID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": v})
		},
	}
}

type submitResult struct {
	Value    model.ReportItemValue    `json:"value"`
	Uploaded []model.ReportAttachment `json:"uploaded"`
	Message  string                   `json:"message"`
}

// submit runs a prepared form and reports a partial upload failure as an
// error after printing what was saved.
func submit(ctx context.Context, cmd *cobra.Command, app *App, form *reports.ValueForm) error {
	req, err := form.BeginSubmit()
	if err != nil {
		return writeErr(cmd, err)
	}
	out := req.Run(ctx, app.client)
	notice := form.ApplySubmit(out)
	if !out.ValueSaved {
		return writeErr(cmd, out.Err)
	}
	uploaded := out.Uploaded
	if uploaded == nil {
		uploaded = []model.ReportAttachment{}
	}
	if err := writeOut(cmd, app, map[string]any{"data": submitResult{Value: out.Value, Uploaded: uploaded, Message: notice.Text}}); err != nil {
		return err
	}
	if notice.IsError() {
		return writeErr(cmd, errors.New(notice.Text))
	}
	return nil
}

func addFiles(form *reports.ValueForm, files []string) error {
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		if _, err := form.AddFile(abs); err != nil {
			return err
		}
	}
	return nil
}

func newReportsAddCmd(app *App) *cobra.Command {
	var number, text string
	var files []string

	cmd := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Record a new value (number, notes and/or attachments)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := reports.ParseID("item", args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			form := reports.NewValueForm(app.client, reports.ModeAdd, app.cfg.Location())
			form.Activate(reports.NavParams{ItemID: args[0]})
			form.SetNumber(number)
			form.SetNotes(text)
			if err := addFiles(form, files); err != nil {
				return writeErr(cmd, err)
			}
			return submit(ctx, cmd, app, form)
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Numeric value (unparseable input is ignored)")
	cmd.Flags().StringVar(&text, "text", "", "Notes / text value")
	cmd.Flags().StringArrayVar(&files, "file", nil, "Attach a file (repeatable; uploaded in order)")
	return cmd
}

func newReportsEditCmd(app *App) *cobra.Command {
	var number, text string
	var files []string

	cmd := &cobra.Command{
		Use:   "edit <item-id> <value-id>",
		Short: "Edit a recorded value (an empty --number or --text clears it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := reports.ParseID("item", args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := reports.ParseID("value", args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			form := reports.NewValueForm(app.client, reports.ModeEdit, app.cfg.Location())
			form.Activate(reports.NavParams{ItemID: args[0], ValueID: args[1]})
			t, ok := form.Begin()
			if !ok {
				return writeErr(cmd, errors.New(form.Err()))
			}
			loaded := form.Fetch(ctx, t)
			if loaded.Err != nil {
				return writeErr(cmd, loaded.Err)
			}
			form.Apply(loaded)
			if cmd.Flags().Changed("number") {
				form.SetNumber(number)
			}
			if cmd.Flags().Changed("text") {
				form.SetNotes(text)
			}
			if err := addFiles(form, files); err != nil {
				return writeErr(cmd, err)
			}
			return submit(ctx, cmd, app, form)
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "New numeric value (\"\" clears it)")
	cmd.Flags().StringVar(&text, "text", "", "New notes (\"\" clears them)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "Attach another file (repeatable)")
	return cmd
}

func newReportsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <value-id>",
		Short: "Delete a recorded value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			valueID, err := reports.ParseID("value", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !yes {
				return writeErr(cmd, errUsage("refusing to delete value %d without --yes", valueID))
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteValue(ctx, valueID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": valueID, "deleted": true}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	return cmd
}

func newReportsDeleteAttachmentCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-attachment <attachment-id>",
		Short: "Delete an attachment from a recorded value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			attachmentID, err := reports.ParseID("attachment", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !yes {
				return writeErr(cmd, errUsage("refusing to delete attachment %d without --yes", attachmentID))
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteAttachment(ctx, attachmentID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": attachmentID, "deleted": true}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	return cmd
}

func newReportsAttachmentURLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "attachment-url <attachment-id>",
		Short: "Print the download URL of an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			attachmentID, err := reports.ParseID("attachment", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.setup(ctx, false); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"id":  attachmentID,
				"url": app.client.AttachmentDownloadURL(attachmentID),
			}})
		},
	}
}
