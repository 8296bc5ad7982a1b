package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"jendo-cli/internal/model"
)

const DefaultPageSize = 20

func (c *Client) Doctors(ctx context.Context, page, size int) (model.Page[model.Doctor], error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	out, err := call[model.Page[model.Doctor]](ctx, c, "list doctors", http.MethodGet, "/doctors", func(r *resty.Request) {
		r.SetQueryParam("page", strconv.Itoa(page))
		r.SetQueryParam("size", strconv.Itoa(size))
	})
	if err != nil {
		return out, err
	}
	out.Content = nonNil(out.Content)
	return out, nil
}

func (c *Client) Doctor(ctx context.Context, id int64) (model.Doctor, error) {
	if err := RequireID("doctor", id); err != nil {
		return model.Doctor{}, err
	}
	return getJSON[model.Doctor](ctx, c, "get doctor", fmt.Sprintf("/doctors/%d", id))
}

func (c *Client) Appointments(ctx context.Context) ([]model.Appointment, error) {
	out, err := getJSON[[]model.Appointment](ctx, c, "list appointments", "/appointments")
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) BookAppointment(ctx context.Context, req model.BookAppointmentRequest) (model.Appointment, error) {
	if err := RequireID("doctor", req.DoctorID); err != nil {
		return model.Appointment{}, err
	}
	if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" {
		return model.Appointment{}, &InputError{Field: "date", Message: "Please choose a date and time"}
	}
	switch req.Type {
	case model.AppointmentVideo, model.AppointmentAudio, model.AppointmentInPerson, model.AppointmentChat:
	default:
		return model.Appointment{}, &InputError{Field: "type", Message: fmt.Sprintf("Unknown appointment type %q", req.Type)}
	}
	return sendJSON[model.Appointment](ctx, c, "book appointment", http.MethodPost, "/appointments", req)
}

func (c *Client) CancelAppointment(ctx context.Context, id int64) (model.Appointment, error) {
	if err := RequireID("appointment", id); err != nil {
		return model.Appointment{}, err
	}
	return sendJSON[model.Appointment](ctx, c, "cancel appointment", http.MethodPost, fmt.Sprintf("/appointments/%d/cancel", id), nil)
}

// WellnessRecommendations lists recommendations, optionally narrowed to one
// risk level ("low", "moderate", "high").
func (c *Client) WellnessRecommendations(ctx context.Context, riskLevel string) ([]model.WellnessRecommendation, error) {
	path := "/wellness-recommendations"
	if lvl := strings.ToLower(strings.TrimSpace(riskLevel)); lvl != "" {
		path += "/risk-level/" + url.PathEscape(lvl)
	}
	out, err := getJSON[[]model.WellnessRecommendation](ctx, c, "list recommendations", path)
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	out, err := getJSON[[]model.Notification](ctx, c, "list notifications", "/notifications")
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if err := RequireID("notification", id); err != nil {
		return err
	}
	_, err := sendJSON[json.RawMessage](ctx, c, "mark notification read", http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), nil)
	return err
}

// UnreadCount counts unread entries client-side.
func UnreadCount(ns []model.Notification) int {
	n := 0
	for _, x := range ns {
		if !x.IsRead {
			n++
		}
	}
	return n
}
