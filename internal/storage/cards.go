package storage

import "context"

func (p *SQLProvider) CreateCard(ctx context.Context, c AccessCard) (int64, error) {
	if c.Status == "" {
		c.Status = CardStatusActive
	}
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO access_card (card_uid, employee_id, status) VALUES (?, ?, ?)`,
		c.CardUID, c.EmployeeID, c.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetCard(ctx context.Context, id int64) (*AccessCard, error) {
	var c AccessCard
	err := p.db.GetContext(ctx, &c, `SELECT * FROM access_card WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *SQLProvider) FindCardByUID(ctx context.Context, cardUID string) (*AccessCard, error) {
	var c AccessCard
	err := p.db.GetContext(ctx, &c, `SELECT * FROM access_card WHERE card_uid = ?`, cardUID)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *SQLProvider) FindCardByEmployee(ctx context.Context, employeeID int64) (*AccessCard, error) {
	var c AccessCard
	err := p.db.GetContext(ctx, &c, `SELECT * FROM access_card WHERE employee_id = ?`, employeeID)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *SQLProvider) ListCards(ctx context.Context, status *CardStatus) ([]AccessCard, error) {
	var cards []AccessCard
	var err error
	if status != nil {
		err = p.db.SelectContext(ctx, &cards,
			`SELECT * FROM access_card WHERE status = ? ORDER BY issued_at DESC`, *status)
	} else {
		err = p.db.SelectContext(ctx, &cards, `SELECT * FROM access_card ORDER BY issued_at DESC`)
	}
	return cards, err
}

func (p *SQLProvider) SetCardStatus(ctx context.Context, id int64, status CardStatus) error {
	_, err := p.db.ExecContext(ctx, `UPDATE access_card SET status = ? WHERE id = ?`, status, id)
	return err
}

func (p *SQLProvider) DeleteCard(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM access_card WHERE id = ?`, id)
	return err
}

// CardByUID resolves a card together with its owning employee and the
// employee's role. The Employee and Role pointers are nil when the joined row
// does not exist, so the verification engine can branch on absence without
// extra lookups.
func (p *SQLProvider) CardByUID(ctx context.Context, cardUID string) (*CardDetail, error) {
	card, err := p.FindCardByUID(ctx, cardUID)
	if err != nil || card == nil {
		return nil, err
	}

	detail := &CardDetail{AccessCard: *card}

	employee, err := p.GetEmployee(ctx, card.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return detail, nil
	}
	detail.Employee = employee

	if employee.RoleID != nil {
		role, err := p.GetRole(ctx, *employee.RoleID)
		if err != nil {
			return nil, err
		}
		detail.Role = role
	}

	return detail, nil
}
