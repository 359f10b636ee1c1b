package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"scholarhub/internal/adapter/repo"
	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
	"scholarhub/internal/payments"
	"scholarhub/internal/workflow"
)

// App is the handler container: shared executor, workflow coordinator and
// collaborators, injected once in cmd/api.
type App struct {
	SQL           infra.SQLExecutor
	Flow          *workflow.Coordinator
	Gateway       *payments.Client
	Logger        zerolog.Logger
	JWTSecret     string
	WebhookSecret string
	MaxLogins     int
	Lockout       time.Duration
}

// store binds the repositories to the pool executor for plain reads.
func (a *App) store() domain.Store {
	return repo.NewStore(a.SQL)
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]any{"success": false, "message": message})
}

// fail maps the domain error taxonomy onto HTTP. Validation errors carry the
// full message list; unexpected errors are logged and masked.
func (a *App) fail(w http.ResponseWriter, err error) {
	var inel *domain.IneligibleError
	var val *domain.ValidationError
	switch {
	case errors.As(err, &val):
		a.json(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"message": "validation failed",
			"errors":  val.Messages,
		})
	case errors.As(err, &inel):
		a.json(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"message": inel.Reason,
		})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		a.error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPreconditionFailed):
		a.error(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrAccountLocked):
		a.error(w, http.StatusLocked, "account temporarily locked")
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal error")
	}
}
