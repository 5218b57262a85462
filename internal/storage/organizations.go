package storage

import (
	"context"
	"database/sql"
	"errors"
)

// noRows reports whether err is the no-result sentinel from database/sql.
func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (p *SQLProvider) CreateOrganization(ctx context.Context, org Organization) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO organization (name, contact_email) VALUES (?, ?)`,
		org.Name, org.ContactEmail)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var org Organization
	err := p.db.GetContext(ctx, &org, `SELECT * FROM organization WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (p *SQLProvider) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	err := p.db.SelectContext(ctx, &orgs, `SELECT * FROM organization ORDER BY created_at DESC`)
	return orgs, err
}

func (p *SQLProvider) UpdateOrganization(ctx context.Context, org Organization) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE organization SET name = ?, contact_email = ? WHERE id = ?`,
		org.Name, org.ContactEmail, org.ID)
	return err
}

func (p *SQLProvider) DeleteOrganization(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM organization WHERE id = ?`, id)
	return err
}

func (p *SQLProvider) CountOrganizations(ctx context.Context) (int, error) {
	var n int
	err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM organization`)
	return n, err
}

func (p *SQLProvider) CreateLease(ctx context.Context, l Lease) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO lease (organization_id, office_space_id, start_date, end_date) VALUES (?, ?, ?, ?)`,
		l.OrganizationID, l.OfficeSpaceID, l.StartDate, l.EndDate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetLease(ctx context.Context, id int64) (*Lease, error) {
	var l Lease
	err := p.db.GetContext(ctx, &l, `SELECT * FROM lease WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (p *SQLProvider) ListLeasesByOrganization(ctx context.Context, orgID int64) ([]Lease, error) {
	var leases []Lease
	err := p.db.SelectContext(ctx, &leases,
		`SELECT * FROM lease WHERE organization_id = ? ORDER BY start_date`, orgID)
	return leases, err
}
