package storage

import (
	"context"
)

func (p *SQLProvider) AppendAccessLog(ctx context.Context, entry AccessLog) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO access_log (card_uid, door_id, status, denial_reason, timestamp) VALUES (?, ?, ?, ?, ?)`,
		entry.CardUID, entry.DoorID, entry.Status, entry.DenialReason, entry.Timestamp.UTC())
	return err
}

func accessLogWhere(filter AccessLogFilter) (string, []any) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.CardUID != "" {
		where += ` AND card_uid = ?`
		args = append(args, filter.CardUID)
	}
	if filter.DoorID != 0 {
		where += ` AND door_id = ?`
		args = append(args, filter.DoorID)
	}
	if filter.Status != "" {
		where += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if !filter.StartDate.IsZero() {
		where += ` AND timestamp >= ?`
		args = append(args, filter.StartDate.UTC())
	}
	if !filter.EndDate.IsZero() {
		where += ` AND timestamp <= ?`
		args = append(args, filter.EndDate.UTC())
	}
	return where, args
}

// ListAccessLogs returns a page of log entries, newest first, together with
// the total row count for the filter.
func (p *SQLProvider) ListAccessLogs(ctx context.Context, filter AccessLogFilter, page, limit int) ([]AccessLog, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	where, args := accessLogWhere(filter)

	var total int
	if err := p.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM access_log`+where, args...); err != nil {
		return nil, 0, err
	}

	var entries []AccessLog
	query := `SELECT * FROM access_log` + where + ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)
	if err := p.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (p *SQLProvider) ListDeniedAttempts(ctx context.Context, filter AccessLogFilter, limit int) ([]AccessLog, error) {
	if limit < 1 {
		limit = 100
	}
	filter.Status = AccessDenied
	where, args := accessLogWhere(filter)

	var entries []AccessLog
	query := `SELECT * FROM access_log` + where + ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)
	err := p.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}

func (p *SQLProvider) AccessStats(ctx context.Context, filter AccessLogFilter) (AccessStats, error) {
	filter.Status = ""
	where, args := accessLogWhere(filter)

	var stats AccessStats
	err := p.db.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'GRANTED' THEN 1 ELSE 0 END), 0) AS granted,
			COALESCE(SUM(CASE WHEN status = 'DENIED' THEN 1 ELSE 0 END), 0) AS denied
		 FROM access_log`+where, args...)
	return stats, err
}
