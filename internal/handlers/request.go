package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/models"
	"github.com/GregMSThompson/devpay-backend/pkg/helpers"
)

const dateLayout = "2006-01-02"

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}

func parsePaymentFilter(q url.Values) (dto.PaymentFilter, error) {
	f := dto.PaymentFilter{
		DeveloperName: helpers.NonBlank(q.Get("developerName")),
		Project:       helpers.NonBlank(q.Get("project")),
		Component:     helpers.NonBlank(q.Get("component")),
	}
	if v := q.Get("status"); v != "" {
		if !models.ValidPaymentStatus(v) {
			return f, errs.NewValidationError("invalid status filter: " + v)
		}
		f.Status = helpers.Ptr(v)
	}
	if v := q.Get("fromDate"); v != "" {
		t, err := parseDate(v, false)
		if err != nil {
			return f, err
		}
		f.FromDate = &t
	}
	if v := q.Get("toDate"); v != "" {
		t, err := parseDate(v, true)
		if err != nil {
			return f, err
		}
		f.ToDate = &t
	}
	return f, nil
}

// parseDate accepts RFC 3339 or a bare UTC date. A bare date used as an upper
// bound covers the whole day.
func parseDate(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, errs.NewValidationError("invalid date: " + v)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
