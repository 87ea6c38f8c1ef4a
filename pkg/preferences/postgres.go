package preferences

import (
	"context"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/pg"
)

const prefColumns = `user_id, email_enabled, push_enabled,
	email_task_created, email_task_updated, email_task_completed, email_task_deleted,
	email_task_due_soon, email_account, email_security_alerts,
	push_task_created, push_task_updated, push_task_completed, push_task_deleted,
	push_task_due_soon, push_account, push_security_alerts,
	daily_digest, weekly_digest, updated_at`

// PostgresStore keeps preferences in the notification_preferences table.
type PostgresStore struct {
	db pg.Querier
}

func NewPostgresStore(db pg.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*Preferences, error) {
	p := &Preferences{}
	err := s.db.QueryRow(ctx, `SELECT `+prefColumns+` FROM notification_preferences WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.EmailEnabled, &p.PushEnabled,
		&p.EmailTaskCreated, &p.EmailTaskUpdated, &p.EmailTaskCompleted, &p.EmailTaskDeleted,
		&p.EmailTaskDueSoon, &p.EmailAccount, &p.EmailSecurityAlerts,
		&p.PushTaskCreated, &p.PushTaskUpdated, &p.PushTaskCompleted, &p.PushTaskDeleted,
		&p.PushTaskDueSoon, &p.PushAccount, &p.PushSecurityAlerts,
		&p.DailyDigest, &p.WeeklyDigest, &p.UpdatedAt,
	)
	if err != nil {
		return nil, pg.Classify("preferences.Get", err)
	}
	return p, nil
}

func (s *PostgresStore) Save(ctx context.Context, p *Preferences) error {
	if p == nil || p.UserID == "" {
		return errs.Invalid("preferences.Save", ErrMissingUserID)
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO notification_preferences (`+prefColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			push_enabled = EXCLUDED.push_enabled,
			email_task_created = EXCLUDED.email_task_created,
			email_task_updated = EXCLUDED.email_task_updated,
			email_task_completed = EXCLUDED.email_task_completed,
			email_task_deleted = EXCLUDED.email_task_deleted,
			email_task_due_soon = EXCLUDED.email_task_due_soon,
			email_account = EXCLUDED.email_account,
			email_security_alerts = EXCLUDED.email_security_alerts,
			push_task_created = EXCLUDED.push_task_created,
			push_task_updated = EXCLUDED.push_task_updated,
			push_task_completed = EXCLUDED.push_task_completed,
			push_task_deleted = EXCLUDED.push_task_deleted,
			push_task_due_soon = EXCLUDED.push_task_due_soon,
			push_account = EXCLUDED.push_account,
			push_security_alerts = EXCLUDED.push_security_alerts,
			daily_digest = EXCLUDED.daily_digest,
			weekly_digest = EXCLUDED.weekly_digest,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.EmailEnabled, p.PushEnabled,
		p.EmailTaskCreated, p.EmailTaskUpdated, p.EmailTaskCompleted, p.EmailTaskDeleted,
		p.EmailTaskDueSoon, p.EmailAccount, p.EmailSecurityAlerts,
		p.PushTaskCreated, p.PushTaskUpdated, p.PushTaskCompleted, p.PushTaskDeleted,
		p.PushTaskDueSoon, p.PushAccount, p.PushSecurityAlerts,
		p.DailyDigest, p.WeeklyDigest, updatedAt,
	)
	return pg.Classify("preferences.Save", err)
}
