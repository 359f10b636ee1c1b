package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
)

// Store bundles the pgx-backed repositories over one executor. Bound to the
// pool runner it serves plain reads; bound to a transaction executor it gives
// the workflow its atomic view.
type Store struct {
	users         UserRepositoryPG
	students      StudentRepositoryPG
	donors        DonorRepositoryPG
	scholarships  ScholarshipRepositoryPG
	applications  ApplicationRepositoryPG
	payments      PaymentRepositoryPG
	notifications NotificationRepositoryPG
	outbox        OutboxRepositoryPG
	activity      ActivityRepositoryPG
}

// NewStore binds all repositories to the given executor.
func NewStore(db infra.SQLExecutor) *Store {
	return &Store{
		users:         UserRepositoryPG{db: db},
		students:      StudentRepositoryPG{db: db},
		donors:        DonorRepositoryPG{db: db},
		scholarships:  ScholarshipRepositoryPG{db: db},
		applications:  ApplicationRepositoryPG{db: db},
		payments:      PaymentRepositoryPG{db: db},
		notifications: NotificationRepositoryPG{db: db},
		outbox:        OutboxRepositoryPG{db: db},
		activity:      ActivityRepositoryPG{db: db},
	}
}

func (s *Store) Users() domain.UserStore                 { return &s.users }
func (s *Store) Students() domain.StudentStore           { return &s.students }
func (s *Store) Donors() domain.DonorStore               { return &s.donors }
func (s *Store) Scholarships() domain.ScholarshipStore   { return &s.scholarships }
func (s *Store) Applications() domain.ApplicationStore   { return &s.applications }
func (s *Store) Payments() domain.PaymentStore           { return &s.payments }
func (s *Store) Notifications() domain.NotificationStore { return &s.notifications }
func (s *Store) Outbox() domain.OutboxStore              { return &s.outbox }
func (s *Store) Activity() domain.ActivityStore          { return &s.activity }

var _ domain.Store = (*Store)(nil)

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
