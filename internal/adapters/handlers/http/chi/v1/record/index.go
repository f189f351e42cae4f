package record

import (
	"fmt"
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"mediavault/internal/core/domain"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

func (h *HandlerV1) IndexV1(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, h.logger, err.Error())
		return
	}

	page, err := h.recordService.Index(r.Context(), query)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, page)
}

func parseQuery(values url.Values) (domain.RecordQuery, error) {
	query := domain.RecordQuery{Search: values.Get("q")}

	var err error
	if query.From, err = parseTime(values.Get("from"), false); err != nil {
		return query, fmt.Errorf("invalid from: %w", err)
	}
	if query.To, err = parseTime(values.Get("to"), true); err != nil {
		return query, fmt.Errorf("invalid to: %w", err)
	}
	if v := values.Get("limit"); v != "" {
		if query.Limit, err = strconv.Atoi(v); err != nil || query.Limit < 0 {
			return query, fmt.Errorf("invalid limit %q", v)
		}
	}
	if v := values.Get("offset"); v != "" {
		if query.Offset, err = strconv.Atoi(v); err != nil || query.Offset < 0 {
			return query, fmt.Errorf("invalid offset %q", v)
		}
	}
	return query, nil
}

// parseTime accepts RFC3339 or a plain date, a plain "to" date covers the whole day
func parseTime(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
