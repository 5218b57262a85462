package storage

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

func (p *SQLProvider) CreateDoor(ctx context.Context, d Door) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO door (name, location, floor_id, office_space_id) VALUES (?, ?, ?, ?)`,
		d.Name, d.Location, d.FloorID, d.OfficeSpaceID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetDoor(ctx context.Context, id int64) (*Door, error) {
	var d Door
	err := p.db.GetContext(ctx, &d, `SELECT * FROM door WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *SQLProvider) ListDoors(ctx context.Context) ([]Door, error) {
	var doors []Door
	err := p.db.SelectContext(ctx, &doors, `SELECT * FROM door ORDER BY name`)
	return doors, err
}

func (p *SQLProvider) UpdateDoor(ctx context.Context, d Door) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE door SET name = ?, location = ?, floor_id = ?, office_space_id = ? WHERE id = ?`,
		d.Name, d.Location, d.FloorID, d.OfficeSpaceID, d.ID)
	return err
}

func (p *SQLProvider) DeleteDoor(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM door WHERE id = ?`, id)
	return err
}

func (p *SQLProvider) AssignDoorToGroup(ctx context.Context, doorID, groupID int64) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO door_door_group (door_id, door_group_id) VALUES (?, ?)`,
		doorID, groupID)
	if isUniqueViolation(err) {
		// Already assigned
		return nil
	}
	return err
}

func (p *SQLProvider) RemoveDoorFromGroup(ctx context.Context, doorID, groupID int64) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM door_door_group WHERE door_id = ? AND door_group_id = ?`,
		doorID, groupID)
	return err
}

func (p *SQLProvider) GroupsForDoor(ctx context.Context, doorID int64) ([]DoorGroup, error) {
	var groups []DoorGroup
	err := p.db.SelectContext(ctx, &groups,
		`SELECT g.* FROM door_group g
		 JOIN door_door_group dg ON dg.door_group_id = g.id
		 WHERE dg.door_id = ?`, doorID)
	return groups, err
}

func (p *SQLProvider) DoorsInGroup(ctx context.Context, groupID int64) ([]Door, error) {
	var doors []Door
	err := p.db.SelectContext(ctx, &doors,
		`SELECT d.* FROM door d
		 JOIN door_door_group dg ON dg.door_id = d.id
		 WHERE dg.door_group_id = ?`, groupID)
	return doors, err
}

// DoorByID resolves a door together with its groups and its building's
// timezone in a single round trip per relation. Doors without a building
// fall back to UTC.
func (p *SQLProvider) DoorByID(ctx context.Context, id int64) (*DoorDetail, error) {
	var row struct {
		Door
		Timezone string `db:"timezone"`
	}
	err := p.db.GetContext(ctx, &row,
		`SELECT d.*, COALESCE(b.timezone, 'UTC') AS timezone
		 FROM door d
		 LEFT JOIN floor f ON f.id = d.floor_id
		 LEFT JOIN building b ON b.id = f.building_id
		 WHERE d.id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	groups, err := p.GroupsForDoor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &DoorDetail{
		Door:     row.Door,
		Groups:   groups,
		Timezone: row.Timezone,
	}, nil
}

// isUniqueViolation reports whether err is a sqlite unique constraint error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// inQuery expands a query containing an IN clause for the given args.
func inQuery(query string, args ...any) (string, []any, error) {
	return sqlx.In(query, args...)
}
