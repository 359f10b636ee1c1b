package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scholarhub/internal/domain"
	"scholarhub/internal/middleware"
)

type notificationDTOOut struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Severity    string `json:"severity"`
	RelatedType string `json:"related_type,omitempty"`
	RelatedID   string `json:"related_id,omitempty"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"created_at"`
}

func notificationDTO(n domain.Notification) notificationDTOOut {
	return notificationDTOOut{
		ID:          n.ID,
		Title:       n.Title,
		Message:     n.Message,
		Severity:    string(n.Severity),
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListNotifications returns the caller's notifications, newest first.
func (a *App) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	list, err := a.store().Notifications().ListByUser(r.Context(), middleware.UserIDFromContext(r.Context()), limit)
	if err != nil {
		a.fail(w, err)
		return
	}
	out := make([]notificationDTOOut, 0, len(list))
	for _, n := range list {
		out = append(out, notificationDTO(n))
	}
	a.json(w, http.StatusOK, map[string]any{"notifications": out})
}

// MarkNotificationRead flips one of the caller's notifications to read.
func (a *App) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := a.store().Notifications().MarkRead(r.Context(),
		chi.URLParam(r, "id"),
		middleware.UserIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}
