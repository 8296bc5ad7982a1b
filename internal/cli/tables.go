package cli

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"jendo-cli/internal/format"
	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"
)

// Slice wrappers give --format table a shape; JSON/EDN output is unchanged.

type categoryRows []model.ReportCategory

func (r categoryRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "Name", "Icon"}}
	for _, c := range r {
		t.Rows = append(t.Rows, []string{id(c.ID), c.Name, reports.CategoryIcon(c)})
	}
	return t
}

type sectionRows []model.ReportSection

func (r sectionRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "Name", "Icon"}}
	for _, s := range r {
		t.Rows = append(t.Rows, []string{id(s.ID), s.Name, reports.SectionIcon(s)})
	}
	return t
}

type itemRows []model.ReportItem

func (r itemRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "Name", "Description"}}
	for _, it := range r {
		t.Rows = append(t.Rows, []string{id(it.ID), it.Name, str(it.Description)})
	}
	return t
}

// valueRows keeps the location so dates render like the TUI.
type valueRows struct {
	values []model.ReportItemValue
	loc    *time.Location
}

func (r valueRows) MarshalJSON() ([]byte, error) { return json.Marshal(r.values) }

func (r valueRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "Date", "Value", "Notes", "Files"}}
	for _, v := range r.values {
		row := reports.NewValueRow(v, r.loc)
		t.Rows = append(t.Rows, []string{id(row.ID), row.Date, row.Value, row.Notes, strconv.Itoa(row.Attachments)})
	}
	return t
}

type doctorRows []model.Doctor

func (r doctorRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "Name", "Specialty", "Hospital", "Available"}}
	for _, d := range r {
		t.Rows = append(t.Rows, []string{id(d.ID), d.Name, d.Specialty, d.Hospital, strconv.FormatBool(d.Available())})
	}
	return t
}

type appointmentRows []model.Appointment

func (r appointmentRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "Doctor", "Date", "Time", "Type", "Status"}}
	for _, a := range r {
		doctor := a.DoctorName
		if doctor == "" {
			doctor = id(a.DoctorID)
		}
		t.Rows = append(t.Rows, []string{id(a.ID), doctor, a.Date, a.Time, string(a.Type), a.Status})
	}
	return t
}

type wellnessRows []model.WellnessRecommendation

func (r wellnessRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "Category", "Title", "Risk"}}
	for _, w := range r {
		t.Rows = append(t.Rows, []string{id(w.ID), w.Category, w.Title, str(w.RiskLevel)})
	}
	return t
}

type notificationRows []model.Notification

func (r notificationRows) Table() format.Table {
	t := format.Table{Headers: []string{"ID", "", "Title", "Message"}}
	for _, n := range r {
		mark := ""
		if !n.IsRead {
			mark = "*"
		}
		t.Rows = append(t.Rows, []string{id(n.ID), mark, n.Title, n.Message})
	}
	return t
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
