package storage

import "context"

// UpsertPermission creates a grant, or updates the existing one in place on
// the (role_id, door_group_id) uniqueness conflict. Re-granting never
// duplicates rows.
func (p *SQLProvider) UpsertPermission(ctx context.Context, perm Permission) (int64, error) {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO role_door_group_permission (role_id, door_group_id, access_type, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (role_id, door_group_id) DO UPDATE SET
			access_type = excluded.access_type,
			start_time = excluded.start_time,
			end_time = excluded.end_time`,
		perm.RoleID, perm.DoorGroupID, perm.AccessType, perm.StartTime, perm.EndTime)
	if err != nil {
		return 0, err
	}

	// last_insert_rowid does not move when the conflict branch updates in
	// place, so resolve the row's id explicitly.
	var id int64
	err = p.db.GetContext(ctx, &id,
		`SELECT id FROM role_door_group_permission WHERE role_id = ? AND door_group_id = ?`,
		perm.RoleID, perm.DoorGroupID)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (p *SQLProvider) GetPermission(ctx context.Context, id int64) (*Permission, error) {
	var perm Permission
	err := p.db.GetContext(ctx, &perm, `SELECT * FROM role_door_group_permission WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (p *SQLProvider) ListPermissions(ctx context.Context, roleID, doorGroupID *int64) ([]Permission, error) {
	var perms []Permission

	query := `SELECT * FROM role_door_group_permission WHERE 1=1`
	args := []any{}

	if roleID != nil {
		query += ` AND role_id = ?`
		args = append(args, *roleID)
	}
	if doorGroupID != nil {
		query += ` AND door_group_id = ?`
		args = append(args, *doorGroupID)
	}

	err := p.db.SelectContext(ctx, &perms, query, args...)
	return perms, err
}

// PermissionsForRole returns the grants the role holds on any of the given
// door groups. No ordering guarantee beyond store iteration order.
func (p *SQLProvider) PermissionsForRole(ctx context.Context, roleID int64, doorGroupIDs []int64) ([]Permission, error) {
	if len(doorGroupIDs) == 0 {
		return nil, nil
	}

	query, args, err := inQuery(
		`SELECT * FROM role_door_group_permission WHERE role_id = ? AND door_group_id IN (?)`,
		roleID, doorGroupIDs)
	if err != nil {
		return nil, err
	}

	var perms []Permission
	err = p.db.SelectContext(ctx, &perms, p.db.Rebind(query), args...)
	return perms, err
}

func (p *SQLProvider) DeletePermission(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM role_door_group_permission WHERE id = ?`, id)
	return err
}

func (p *SQLProvider) DeletePermissionByRoleAndGroup(ctx context.Context, roleID, doorGroupID int64) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM role_door_group_permission WHERE role_id = ? AND door_group_id = ?`,
		roleID, doorGroupID)
	return err
}
