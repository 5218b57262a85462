package storage

import (
	"context"
	"time"
)

func (p *SQLProvider) CreateEmployee(ctx context.Context, e Employee) (int64, error) {
	if e.Status == "" {
		e.Status = EmployeeStatusActive
	}
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO employee (name, email, status, organization_id, role_id) VALUES (?, ?, ?, ?, ?)`,
		e.Name, e.Email, e.Status, e.OrganizationID, e.RoleID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	var e Employee
	err := p.db.GetContext(ctx, &e, `SELECT * FROM employee WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (p *SQLProvider) FindEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	var e Employee
	err := p.db.GetContext(ctx, &e, `SELECT * FROM employee WHERE email = ?`, email)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (p *SQLProvider) ListEmployees(ctx context.Context, organizationID *int64, status *EmployeeStatus) ([]Employee, error) {
	var employees []Employee

	query := `SELECT * FROM employee WHERE 1=1`
	args := []any{}

	if organizationID != nil {
		query += ` AND organization_id = ?`
		args = append(args, *organizationID)
	}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY name`

	err := p.db.SelectContext(ctx, &employees, query, args...)
	return employees, err
}

func (p *SQLProvider) UpdateEmployee(ctx context.Context, e Employee) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE employee SET name = ?, email = ?, status = ?, organization_id = ?, role_id = ? WHERE id = ?`,
		e.Name, e.Email, e.Status, e.OrganizationID, e.RoleID, e.ID)
	return err
}

func (p *SQLProvider) SetEmployeeStatus(ctx context.Context, id int64, status EmployeeStatus) error {
	_, err := p.db.ExecContext(ctx, `UPDATE employee SET status = ? WHERE id = ?`, status, id)
	return err
}

func (p *SQLProvider) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM employee WHERE id = ?`, id)
	return err
}

func (p *SQLProvider) CountEmployees(ctx context.Context, status *EmployeeStatus) (int, error) {
	var n int
	var err error
	if status != nil {
		err = p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM employee WHERE status = ?`, *status)
	} else {
		err = p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM employee`)
	}
	return n, err
}

// DeactivateEmployeesOfExpiredLeases deactivates employees (and their cards)
// of organizations whose every lease has ended. Organizations with no lease
// at all are left alone.
func (p *SQLProvider) DeactivateEmployeesOfExpiredLeases(ctx context.Context, now time.Time) (int64, error) {
	today := now.Format("2006-01-02")

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	expiredOrgs := `SELECT organization_id FROM lease
		GROUP BY organization_id
		HAVING MAX(end_date) < ?`

	res, err := tx.ExecContext(ctx,
		`UPDATE employee SET status = 'INACTIVE'
		 WHERE status = 'ACTIVE' AND organization_id IN (`+expiredOrgs+`)`, today)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE access_card SET status = 'INACTIVE'
		 WHERE status = 'ACTIVE' AND employee_id IN (
			SELECT id FROM employee WHERE status = 'INACTIVE'
			AND organization_id IN (`+expiredOrgs+`))`, today); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}
