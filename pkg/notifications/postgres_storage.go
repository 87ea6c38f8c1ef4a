package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/pg"
)

const (
	notificationColumns = `id, user_id, event_type, type, priority, title, message, data, read, read_at, created_at, expires_at`
	selectColumns       = `id::text, user_id, event_type, type, priority, title, message, data, read, read_at, created_at, expires_at`
)

// PostgresStorage keeps notifications in the notifications table.
type PostgresStorage struct {
	db  pg.Querier
	now func() time.Time
}

func NewPostgresStorage(db pg.Querier) *PostgresStorage {
	return &PostgresStorage{db: db, now: time.Now}
}

func (s *PostgresStorage) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return errs.Invalid("notifications.Create", ErrMissingID)
	}
	if n.UserID == "" {
		return errs.Invalid("notifications.Create", ErrMissingUserID)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	data, err := json.Marshal(n.Data)
	if err != nil {
		return errs.Invalid("notifications.Create", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID, n.UserID, n.EventType, string(n.Type), int(n.Priority), n.Title, n.Message,
		data, n.Read, n.ReadAt, n.CreatedAt, n.ExpiresAt,
	)
	return pg.Classify("notifications.Create", err)
}

func (s *PostgresStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM notifications WHERE user_id = $1 AND id::text = $2`,
		userID, notifID,
	)
	n, err := scanNotification(row)
	if pg.IsNotFoundError(err) {
		return nil, errs.NotFound("notifications.Get", ErrNotificationNotFound)
	}
	if err != nil {
		return nil, pg.Classify("notifications.Get", err)
	}
	return &n, nil
}

func (s *PostgresStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	var (
		where = []string{"user_id = $1", "(expires_at IS NULL OR expires_at > $2)"}
		args  = []any{userID, s.now()}
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.OnlyUnread {
		where = append(where, "NOT read")
	}
	if len(opts.Types) > 0 {
		types := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			types[i] = string(t)
		}
		where = append(where, "type = ANY("+arg(types)+")")
	}
	if len(opts.EventTypes) > 0 {
		where = append(where, "event_type = ANY("+arg(opts.EventTypes)+")")
	}
	if opts.Since != nil {
		where = append(where, "created_at >= "+arg(*opts.Since))
	}

	query := `SELECT ` + selectColumns + ` FROM notifications WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += " LIMIT " + arg(opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET " + arg(opts.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, pg.Classify("notifications.List", err)
	}
	defer rows.Close()

	list := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, pg.Classify("notifications.List", err)
		}
		list = append(list, n)
	}
	return list, pg.Classify("notifications.List", rows.Err())
}

func (s *PostgresStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE, read_at = $3
		WHERE user_id = $1 AND id::text = ANY($2) AND NOT read`,
		userID, notifIDs, s.now(),
	)
	return pg.Classify("notifications.MarkRead", err)
}

func (s *PostgresStorage) Delete(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`DELETE FROM notifications WHERE user_id = $1 AND id::text = ANY($2)`,
		userID, notifIDs,
	)
	return pg.Classify("notifications.Delete", err)
}

func (s *PostgresStorage) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at <= $1`, now,
	)
	if err != nil {
		return 0, pg.Classify("notifications.DeleteExpired", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM notifications
		WHERE user_id = $1 AND NOT read AND (expires_at IS NULL OR expires_at > $2)`,
		userID, s.now(),
	).Scan(&count)
	if err != nil {
		return 0, pg.Classify("notifications.CountUnread", err)
	}
	return count, nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var (
		n        Notification
		typ      string
		priority int
		data     []byte
	)
	err := row.Scan(
		&n.ID, &n.UserID, &n.EventType, &typ, &priority, &n.Title, &n.Message,
		&data, &n.Read, &n.ReadAt, &n.CreatedAt, &n.ExpiresAt,
	)
	if err != nil {
		return Notification{}, err
	}
	n.Type = Type(typ)
	n.Priority = Priority(priority)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return Notification{}, err
		}
	}
	return n, nil
}
