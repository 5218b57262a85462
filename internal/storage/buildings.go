package storage

import "context"

func (p *SQLProvider) CreateBuilding(ctx context.Context, b Building) (int64, error) {
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO building (name, address, timezone) VALUES (?, ?, ?)`,
		b.Name, b.Address, b.Timezone)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetBuilding(ctx context.Context, id int64) (*Building, error) {
	var b Building
	err := p.db.GetContext(ctx, &b, `SELECT * FROM building WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (p *SQLProvider) ListBuildings(ctx context.Context) ([]Building, error) {
	var buildings []Building
	err := p.db.SelectContext(ctx, &buildings, `SELECT * FROM building ORDER BY created_at DESC`)
	return buildings, err
}

func (p *SQLProvider) UpdateBuilding(ctx context.Context, b Building) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE building SET name = ?, address = ?, timezone = ? WHERE id = ?`,
		b.Name, b.Address, b.Timezone, b.ID)
	return err
}

func (p *SQLProvider) DeleteBuilding(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM building WHERE id = ?`, id)
	return err
}

func (p *SQLProvider) CountBuildings(ctx context.Context) (int, error) {
	var n int
	err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM building`)
	return n, err
}

func (p *SQLProvider) CreateFloor(ctx context.Context, f Floor) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO floor (building_id, floor_number) VALUES (?, ?)`,
		f.BuildingID, f.FloorNumber)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetFloor(ctx context.Context, id int64) (*Floor, error) {
	var f Floor
	err := p.db.GetContext(ctx, &f, `SELECT * FROM floor WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (p *SQLProvider) ListFloorsByBuilding(ctx context.Context, buildingID int64) ([]Floor, error) {
	var floors []Floor
	err := p.db.SelectContext(ctx, &floors,
		`SELECT * FROM floor WHERE building_id = ? ORDER BY floor_number`, buildingID)
	return floors, err
}

func (p *SQLProvider) CreateOfficeSpace(ctx context.Context, s OfficeSpace) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO office_space (floor_id, name) VALUES (?, ?)`,
		s.FloorID, s.Name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetOfficeSpace(ctx context.Context, id int64) (*OfficeSpace, error) {
	var s OfficeSpace
	err := p.db.GetContext(ctx, &s, `SELECT * FROM office_space WHERE id = ?`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *SQLProvider) ListOfficeSpacesByFloor(ctx context.Context, floorID int64) ([]OfficeSpace, error) {
	var spaces []OfficeSpace
	err := p.db.SelectContext(ctx, &spaces,
		`SELECT * FROM office_space WHERE floor_id = ? ORDER BY name`, floorID)
	return spaces, err
}
