package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one append-only audit record: who did what to which key.
type Event struct {
	ID        string
	Type      string // e.g. "grade.recorded", "term_average.batch"
	Key       string // natural key: enrollment|assignment, or batch run id
	Actor     string
	DataJSON  string
	CreatedAt int64
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

// Append records an event. data is marshaled to JSON; a nil data stores "{}".
func (l *Log) Append(ctx context.Context, typ, key, actor string, data any) error {
	payload := []byte("{}")
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = b
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO event_log (id, typ, key, actor, data, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.NewString(), typ, key, actor, string(payload), time.Now().Unix())
	return err
}
