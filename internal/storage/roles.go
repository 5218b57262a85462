package storage

import "context"

func (p *SQLProvider) CreateRole(ctx context.Context, r Role) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO access_role (name, description, is_system_role, organization_id) VALUES (?, ?, ?, ?)`,
		r.Name, r.Description, r.IsSystemRole, r.OrganizationID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetRole(ctx context.Context, id int64) (*Role, error) {
	var r Role
	err := p.db.GetContext(ctx, &r, `SELECT * FROM access_role WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *SQLProvider) ListRoles(ctx context.Context, organizationID *int64, systemOnly bool) ([]Role, error) {
	var roles []Role

	query := `SELECT * FROM access_role`
	args := []any{}

	switch {
	case systemOnly:
		query += ` WHERE is_system_role = 1`
	case organizationID != nil:
		query += ` WHERE organization_id = ?`
		args = append(args, *organizationID)
	}
	query += ` ORDER BY name`

	err := p.db.SelectContext(ctx, &roles, query, args...)
	return roles, err
}

func (p *SQLProvider) FindRoleByName(ctx context.Context, name string, organizationID *int64) (*Role, error) {
	var r Role
	var err error
	if organizationID == nil {
		err = p.db.GetContext(ctx, &r,
			`SELECT * FROM access_role WHERE name = ? AND organization_id IS NULL`, name)
	} else {
		err = p.db.GetContext(ctx, &r,
			`SELECT * FROM access_role WHERE name = ? AND organization_id = ?`, name, *organizationID)
	}
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *SQLProvider) UpdateRole(ctx context.Context, r Role) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE access_role SET name = ?, description = ? WHERE id = ?`,
		r.Name, r.Description, r.ID)
	return err
}

func (p *SQLProvider) DeleteRole(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM access_role WHERE id = ?`, id)
	return err
}

func (p *SQLProvider) CreateDoorGroup(ctx context.Context, g DoorGroup) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO door_group (name, type, description) VALUES (?, ?, ?)`,
		g.Name, g.Type, g.Description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetDoorGroup(ctx context.Context, id int64) (*DoorGroup, error) {
	var g DoorGroup
	err := p.db.GetContext(ctx, &g, `SELECT * FROM door_group WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (p *SQLProvider) FindDoorGroupByType(ctx context.Context, typ DoorGroupType) (*DoorGroup, error) {
	var g DoorGroup
	err := p.db.GetContext(ctx, &g, `SELECT * FROM door_group WHERE type = ? LIMIT 1`, typ)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (p *SQLProvider) ListDoorGroups(ctx context.Context) ([]DoorGroup, error) {
	var groups []DoorGroup
	err := p.db.SelectContext(ctx, &groups, `SELECT * FROM door_group ORDER BY type`)
	return groups, err
}

func (p *SQLProvider) UpdateDoorGroup(ctx context.Context, g DoorGroup) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE door_group SET name = ?, type = ?, description = ? WHERE id = ?`,
		g.Name, g.Type, g.Description, g.ID)
	return err
}

func (p *SQLProvider) DeleteDoorGroup(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM door_group WHERE id = ?`, id)
	return err
}
