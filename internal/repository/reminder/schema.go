package reminder

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
)

// schema creates the reminders table. Statements are idempotent so it runs on every start.
const schema = `
CREATE TABLE IF NOT EXISTS reminders (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    due_at     TIMESTAMPTZ NOT NULL,
    message    VARCHAR(500) NOT NULL CHECK (char_length(message) BETWEEN 1 AND 500),
    method     TEXT NOT NULL CHECK (method IN ('EMAIL', 'SMS', 'PUSH')),
    status     TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'SENT', 'FAILED')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- due scan: status = 'PENDING' AND due_at <= $2 ORDER BY due_at
CREATE INDEX IF NOT EXISTS idx_reminders_status_due_at
    ON reminders (status, due_at);
`

// InitSchema applies the reminders schema on the master node.
func InitSchema(ctx context.Context, db *dbpg.DB) error {
	if _, err := db.Master.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}
