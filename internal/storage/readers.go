package storage

import "context"

func (p *SQLProvider) CreateReader(ctx context.Context, r Reader) (int64, error) {
	if r.Status == "" {
		r.Status = ReaderStatusPending
	}
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO reader (reader_id, door_id, client_ip, status, key_hash) VALUES (?, ?, ?, ?, ?)`,
		r.ReaderID, r.DoorID, r.ClientIP, r.Status, r.KeyHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetReader(ctx context.Context, readerID string) (*Reader, error) {
	var r Reader
	err := p.db.GetContext(ctx, &r, `SELECT * FROM reader WHERE reader_id = ?`, readerID)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *SQLProvider) ListReaders(ctx context.Context, status ReaderStatus) ([]Reader, error) {
	var readers []Reader
	var err error
	if status != "" {
		err = p.db.SelectContext(ctx, &readers,
			`SELECT * FROM reader WHERE status = ? ORDER BY created_at DESC`, status)
	} else {
		err = p.db.SelectContext(ctx, &readers, `SELECT * FROM reader ORDER BY created_at DESC`)
	}
	return readers, err
}

func (p *SQLProvider) UpdateReaderStatus(ctx context.Context, readerID string, status ReaderStatus, approvedBy *string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE reader SET status = ?, approved_by = ? WHERE reader_id = ?`,
		status, approvedBy, readerID)
	return err
}

func (p *SQLProvider) SetReaderKeyHash(ctx context.Context, readerID string, keyHash string) error {
	_, err := p.db.ExecContext(ctx, `UPDATE reader SET key_hash = ? WHERE reader_id = ?`, keyHash, readerID)
	return err
}
