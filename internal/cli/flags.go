package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"jendo-cli/internal/model"
)

var (
	reDateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reClock    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// dateValue is a YYYY-MM-DD flag that also accepts "today" and
// "tomorrow". Relative words are resolved later, once the configured
// timezone is known.
type dateValue string

func (d *dateValue) String() string { return string(*d) }
func (d *dateValue) Type() string   { return "date" }

func (d *dateValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "today", "tomorrow":
		*d = dateValue(s)
		return nil
	}
	if !reDateOnly.MatchString(s) {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today, or tomorrow)", s)
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	*d = dateValue(s)
	return nil
}

func (d dateValue) resolve(now time.Time, loc *time.Location) string {
	switch d {
	case "today":
		return now.In(loc).Format("2006-01-02")
	case "tomorrow":
		return now.In(loc).AddDate(0, 0, 1).Format("2006-01-02")
	}
	return string(d)
}

// clockValue is an HH:MM flag (24h).
type clockValue string

func (c *clockValue) String() string { return string(*c) }
func (c *clockValue) Type() string   { return "time" }

func (c *clockValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if !reClock.MatchString(s) {
		return fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	*c = clockValue(s)
	return nil
}

type appointmentTypeValue model.AppointmentType

var appointmentTypes = []model.AppointmentType{
	model.AppointmentVideo,
	model.AppointmentAudio,
	model.AppointmentInPerson,
	model.AppointmentChat,
}

func (a *appointmentTypeValue) String() string { return string(*a) }
func (a *appointmentTypeValue) Type() string   { return "type" }

func (a *appointmentTypeValue) Set(s string) error {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	for _, t := range appointmentTypes {
		if string(t) == v {
			*a = appointmentTypeValue(t)
			return nil
		}
	}
	names := make([]string, 0, len(appointmentTypes))
	for _, t := range appointmentTypes {
		names = append(names, string(t))
	}
	return fmt.Errorf("invalid appointment type %q (expected %s)", s, strings.Join(names, "|"))
}
