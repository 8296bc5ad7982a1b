package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"jendo-cli/internal/api"
	"jendo-cli/internal/content"
	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"

	"github.com/spf13/cobra"
)

func newDoctorsCmd(app *App) *cobra.Command {
	cmd := newDoctorsListCmd(app, "doctors", "Browse the doctor directory")
	cmd.AddCommand(newDoctorsListCmd(app, "list", "List one page of doctors"))
	cmd.AddCommand(newDoctorShowCmd(app))
	return cmd
}

func newDoctorsListCmd(app *App, use, short string) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			p, err := app.client.Doctors(ctx, page, size)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": doctorRows(p.Content),
				"meta": map[string]any{
					"page":          p.PageNumber,
					"size":          p.PageSize,
					"totalPages":    p.TotalPages,
					"totalElements": p.TotalElements,
					"last":          p.Last,
				},
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&size, "size", api.DefaultPageSize, "Page size")
	return cmd
}

func newDoctorShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <doctor-id>",
		Short: "Show one doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doctorID, err := reports.ParseID("doctor", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			d, err := app.client.Doctor(ctx, doctorID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
}

func newAppointmentsCmd(app *App) *cobra.Command {
	cmd := newAppointmentsListCmd(app, "appointments", "List, book and cancel appointments")
	cmd.AddCommand(newAppointmentsListCmd(app, "list", "List your appointments"))
	cmd.AddCommand(newAppointmentBookCmd(app))
	cmd.AddCommand(newAppointmentCancelCmd(app))
	return cmd
}

func newAppointmentsListCmd(app *App, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			rows, err := app.client.Appointments(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": appointmentRows(rows)})
		},
	}
}

func newAppointmentBookCmd(app *App) *cobra.Command {
	var doctorID int64
	var date dateValue
	var clock clockValue
	apptType := appointmentTypeValue(model.AppointmentInPerson)
	var notes string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment with a doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			user, ok := app.sess.User()
			if !ok {
				return writeErr(cmd, errNotSignedIn)
			}
			req := model.BookAppointmentRequest{
				UserID:   user.ID,
				DoctorID: doctorID,
				Date:     date.resolve(time.Now(), app.cfg.Location()),
				Time:     string(clock),
				Type:     model.AppointmentType(apptType),
			}
			if n := strings.TrimSpace(notes); n != "" {
				req.Notes = &n
			}
			a, err := app.client.BookAppointment(ctx, req)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}

	cmd.Flags().Int64Var(&doctorID, "doctor", 0, "Doctor id")
	cmd.Flags().Var(&date, "date", "Date (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().Var(&clock, "time", "Time (HH:MM, 24h)")
	cmd.Flags().Var(&apptType, "type", "Appointment type (video|audio|in_person|chat)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the doctor")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func newAppointmentCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <appointment-id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			appointmentID, err := reports.ParseID("appointment", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			a, err := app.client.CancelAppointment(ctx, appointmentID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}
}

const wellnessSummaryRunes = 120

type wellnessSummary struct {
	model.WellnessRecommendation
	Summary string `json:"summary"`
}

func newWellnessCmd(app *App) *cobra.Command {
	var risk, htmlPath string
	var htmlID int64

	cmd := &cobra.Command{
		Use:   "wellness",
		Short: "List wellness recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			rows, err := app.client.WellnessRecommendations(ctx, risk)
			if err != nil {
				return writeErr(cmd, err)
			}

			if htmlID != 0 {
				for _, w := range rows {
					if w.ID != htmlID {
						continue
					}
					body := w.Description
					if c := str(w.Content); c != "" {
						body = c
					}
					doc := content.HTMLDocument(w.Title, body)
					if htmlPath == "" || htmlPath == "-" {
						_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
						return err
					}
					if err := os.WriteFile(htmlPath, []byte(doc), 0o644); err != nil {
						return writeErr(cmd, err)
					}
					return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": w.ID, "path": htmlPath}})
				}
				return writeErr(cmd, fmt.Errorf("recommendation %d not found", htmlID))
			}

			if app.Format == "table" {
				return writeOut(cmd, app, map[string]any{"data": wellnessRows(rows)})
			}
			out := make([]wellnessSummary, 0, len(rows))
			for _, w := range rows {
				body := w.Description
				if c := str(w.Content); c != "" {
					body = c
				}
				out = append(out, wellnessSummary{WellnessRecommendation: w, Summary: content.Summary(body, wellnessSummaryRunes)})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&risk, "risk-level", "", "Only show one risk level (low|moderate|high)")
	cmd.Flags().Int64Var(&htmlID, "html", 0, "Render one recommendation as a standalone HTML page")
	cmd.Flags().StringVar(&htmlPath, "out", "", "Write --html output to this file (default: stdout)")
	return cmd
}

func newNotificationsCmd(app *App) *cobra.Command {
	var markRead int64

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.signedIn(ctx); err != nil {
				return writeErr(cmd, err)
			}
			if markRead != 0 {
				if err := app.client.MarkNotificationRead(ctx, markRead); err != nil {
					return writeErr(cmd, err)
				}
			}
			rows, err := app.client.Notifications(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": notificationRows(rows),
				"meta": map[string]any{"unread": api.UnreadCount(rows)},
			})
		},
	}

	cmd.Flags().Int64Var(&markRead, "mark-read", 0, "Mark one notification read before listing")
	return cmd
}
