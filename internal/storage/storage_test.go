package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"building-access-control/internal/config"
)

func newTestProvider(t *testing.T) Provider {
	t.Helper()

	cfg := &config.Storage{
		SQLite: &config.SQLLiteStorage{
			Path: filepath.Join(t.TempDir(), "test.db"),
		},
	}

	provider := NewProvider(cfg)
	if provider == nil {
		t.Fatal("NewProvider returned nil")
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func seedOrganization(t *testing.T, p Provider, name string) int64 {
	t.Helper()
	id, err := p.CreateOrganization(context.Background(), Organization{Name: name, ContactEmail: "office@example.test"})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	return id
}

func TestMigrationsApplyOnStartup(t *testing.T) {
	provider := newTestProvider(t)

	version, err := provider.GetSchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("GetSchemaVersion: %v", err)
	}
	if version < 1 {
		t.Errorf("schema version = %d, want >= 1", version)
	}
}

func TestCardLifecycle(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	orgID := seedOrganization(t, provider, "Acme Corporation")

	roleID, err := provider.CreateRole(ctx, Role{Name: "Manager", IsSystemRole: true})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	empID, err := provider.CreateEmployee(ctx, Employee{
		Name:           "Alice Chen",
		Email:          "alice@example.test",
		Status:         EmployeeStatusActive,
		OrganizationID: orgID,
		RoleID:         &roleID,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	if _, err := provider.CreateCard(ctx, AccessCard{CardUID: "CARD-1", EmployeeID: empID}); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	card, err := provider.FindCardByUID(ctx, "CARD-1")
	if err != nil {
		t.Fatalf("FindCardByUID: %v", err)
	}
	if card == nil {
		t.Fatal("FindCardByUID returned nil for existing card")
	}
	if card.Status != CardStatusActive {
		t.Errorf("new card status = %q, want ACTIVE", card.Status)
	}

	detail, err := provider.CardByUID(ctx, "CARD-1")
	if err != nil {
		t.Fatalf("CardByUID: %v", err)
	}
	if detail.Employee == nil || detail.Employee.Name != "Alice Chen" {
		t.Errorf("CardByUID employee = %+v, want Alice Chen", detail.Employee)
	}
	if detail.Role == nil || detail.Role.Name != "Manager" {
		t.Errorf("CardByUID role = %+v, want Manager", detail.Role)
	}

	if err := provider.SetCardStatus(ctx, card.ID, CardStatusBlocked); err != nil {
		t.Fatalf("SetCardStatus: %v", err)
	}
	card, _ = provider.FindCardByEmployee(ctx, empID)
	if card == nil || card.Status != CardStatusBlocked {
		t.Errorf("card after block = %+v, want BLOCKED", card)
	}

	missing, err := provider.CardByUID(ctx, "CARD-NOPE")
	if err != nil {
		t.Fatalf("CardByUID for missing card: %v", err)
	}
	if missing != nil {
		t.Errorf("CardByUID for missing card = %+v, want nil", missing)
	}
}

func TestPermissionUpsert(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	roleID, err := provider.CreateRole(ctx, Role{Name: "Employee", IsSystemRole: true})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	groupID, err := provider.CreateDoorGroup(ctx, DoorGroup{Name: "Public Areas", Type: DoorGroupPublic})
	if err != nil {
		t.Fatalf("CreateDoorGroup: %v", err)
	}

	firstID, err := provider.UpsertPermission(ctx, Permission{
		RoleID: roleID, DoorGroupID: groupID, AccessType: AccessAlways,
	})
	if err != nil {
		t.Fatalf("UpsertPermission: %v", err)
	}

	// An unrelated grant in between moves last_insert_rowid along.
	otherGroupID, err := provider.CreateDoorGroup(ctx, DoorGroup{Name: "Restricted Areas", Type: DoorGroupRestricted})
	if err != nil {
		t.Fatalf("CreateDoorGroup (other): %v", err)
	}
	otherID, err := provider.UpsertPermission(ctx, Permission{
		RoleID: roleID, DoorGroupID: otherGroupID, AccessType: AccessAlways,
	})
	if err != nil {
		t.Fatalf("UpsertPermission (other): %v", err)
	}

	// Same (role, door group) pair again updates in place and still reports
	// the existing row's id, not whichever row was inserted last.
	start, end := "09:00:00", "17:00:00"
	updatedID, err := provider.UpsertPermission(ctx, Permission{
		RoleID: roleID, DoorGroupID: groupID,
		AccessType: AccessTimeBound, StartTime: &start, EndTime: &end,
	})
	if err != nil {
		t.Fatalf("UpsertPermission (update): %v", err)
	}
	if updatedID != firstID {
		t.Errorf("re-grant returned id %d, want existing row id %d (other row id %d)", updatedID, firstID, otherID)
	}

	perms, err := provider.ListPermissions(ctx, &roleID, &groupID)
	if err != nil {
		t.Fatalf("ListPermissions: %v", err)
	}
	if len(perms) != 1 {
		t.Fatalf("got %d permissions for the pair after upsert, want 1", len(perms))
	}
	if perms[0].AccessType != AccessTimeBound || perms[0].StartTime == nil || *perms[0].StartTime != start {
		t.Errorf("upserted permission = %+v, want TIME_BOUND 09:00:00", perms[0])
	}

	forRole, err := provider.PermissionsForRole(ctx, roleID, []int64{groupID, 9999})
	if err != nil {
		t.Fatalf("PermissionsForRole: %v", err)
	}
	if len(forRole) != 1 {
		t.Errorf("PermissionsForRole returned %d rows, want 1", len(forRole))
	}

	forRole, err = provider.PermissionsForRole(ctx, roleID, nil)
	if err != nil {
		t.Fatalf("PermissionsForRole with no groups: %v", err)
	}
	if len(forRole) != 0 {
		t.Errorf("PermissionsForRole with no groups returned %d rows, want 0", len(forRole))
	}
}

func TestDoorDetailTimezone(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	buildingID, err := provider.CreateBuilding(ctx, Building{
		Name: "TechHub Tower", Address: "100 Innovation Drive", Timezone: "America/New_York",
	})
	if err != nil {
		t.Fatalf("CreateBuilding: %v", err)
	}
	floorID, err := provider.CreateFloor(ctx, Floor{BuildingID: buildingID, FloorNumber: 3})
	if err != nil {
		t.Fatalf("CreateFloor: %v", err)
	}

	doorID, err := provider.CreateDoor(ctx, Door{Name: "Suite 301 Entrance", FloorID: &floorID})
	if err != nil {
		t.Fatalf("CreateDoor: %v", err)
	}
	groupID, err := provider.CreateDoorGroup(ctx, DoorGroup{Name: "Private Offices", Type: DoorGroupPrivate})
	if err != nil {
		t.Fatalf("CreateDoorGroup: %v", err)
	}
	if err := provider.AssignDoorToGroup(ctx, doorID, groupID); err != nil {
		t.Fatalf("AssignDoorToGroup: %v", err)
	}
	// Assigning twice is a no-op, not an error.
	if err := provider.AssignDoorToGroup(ctx, doorID, groupID); err != nil {
		t.Fatalf("AssignDoorToGroup (repeat): %v", err)
	}

	detail, err := provider.DoorByID(ctx, doorID)
	if err != nil {
		t.Fatalf("DoorByID: %v", err)
	}
	if detail.Timezone != "America/New_York" {
		t.Errorf("door timezone = %q, want America/New_York", detail.Timezone)
	}
	if len(detail.Groups) != 1 || detail.Groups[0].Type != DoorGroupPrivate {
		t.Errorf("door groups = %+v, want one PRIVATE group", detail.Groups)
	}

	// A door with no floor has no building to take a timezone from.
	orphanID, err := provider.CreateDoor(ctx, Door{Name: "Loading Dock"})
	if err != nil {
		t.Fatalf("CreateDoor (orphan): %v", err)
	}
	orphan, err := provider.DoorByID(ctx, orphanID)
	if err != nil {
		t.Fatalf("DoorByID (orphan): %v", err)
	}
	if orphan.Timezone != "UTC" {
		t.Errorf("orphan door timezone = %q, want UTC", orphan.Timezone)
	}
	if len(orphan.Groups) != 0 {
		t.Errorf("orphan door groups = %+v, want none", orphan.Groups)
	}
}

func TestAccessLogFilterAndStats(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	reason := "NO_PERMISSION"
	entries := []AccessLog{
		{CardUID: "CARD-1", DoorID: 1, Status: AccessGranted, Timestamp: now},
		{CardUID: "CARD-1", DoorID: 2, Status: AccessDenied, DenialReason: &reason, Timestamp: now.Add(time.Minute)},
		{CardUID: "CARD-2", DoorID: 1, Status: AccessGranted, Timestamp: now.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := provider.AppendAccessLog(ctx, e); err != nil {
			t.Fatalf("AppendAccessLog: %v", err)
		}
	}

	logs, total, err := provider.ListAccessLogs(ctx, AccessLogFilter{CardUID: "CARD-1"}, 1, 10)
	if err != nil {
		t.Fatalf("ListAccessLogs: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("CARD-1 logs: total=%d len=%d, want 2/2", total, len(logs))
	}
	// Newest first.
	if logs[0].DoorID != 2 {
		t.Errorf("first log door = %d, want 2 (newest entry)", logs[0].DoorID)
	}

	denied, err := provider.ListDeniedAttempts(ctx, AccessLogFilter{}, 10)
	if err != nil {
		t.Fatalf("ListDeniedAttempts: %v", err)
	}
	if len(denied) != 1 || denied[0].DenialReason == nil || *denied[0].DenialReason != reason {
		t.Errorf("denied attempts = %+v, want single NO_PERMISSION entry", denied)
	}

	stats, err := provider.AccessStats(ctx, AccessLogFilter{StartDate: now})
	if err != nil {
		t.Fatalf("AccessStats: %v", err)
	}
	if stats.Total != 3 || stats.Granted != 2 || stats.Denied != 1 {
		t.Errorf("stats = %+v, want total 3 granted 2 denied 1", stats)
	}
}

func TestDeactivateEmployeesOfExpiredLeases(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	buildingID, err := provider.CreateBuilding(ctx, Building{Name: "TechHub Tower", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("CreateBuilding: %v", err)
	}
	floorID, err := provider.CreateFloor(ctx, Floor{BuildingID: buildingID, FloorNumber: 1})
	if err != nil {
		t.Fatalf("CreateFloor: %v", err)
	}
	spaceID, err := provider.CreateOfficeSpace(ctx, OfficeSpace{FloorID: floorID, Name: "Suite 101"})
	if err != nil {
		t.Fatalf("CreateOfficeSpace: %v", err)
	}

	expiredOrg := seedOrganization(t, provider, "Departed Inc")
	currentOrg := seedOrganization(t, provider, "Staying LLC")

	leases := []Lease{
		{OrganizationID: expiredOrg, OfficeSpaceID: spaceID, StartDate: "2023-01-01", EndDate: "2023-12-31"},
		{OrganizationID: currentOrg, OfficeSpaceID: spaceID, StartDate: "2024-01-01", EndDate: "2030-12-31"},
	}
	for _, l := range leases {
		if _, err := provider.CreateLease(ctx, l); err != nil {
			t.Fatalf("CreateLease: %v", err)
		}
	}

	goneID, err := provider.CreateEmployee(ctx, Employee{
		Name: "Bob Gone", Email: "bob@departed.test", Status: EmployeeStatusActive, OrganizationID: expiredOrg,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if _, err := provider.CreateCard(ctx, AccessCard{CardUID: "CARD-GONE", EmployeeID: goneID}); err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	stayID, err := provider.CreateEmployee(ctx, Employee{
		Name: "Carol Stays", Email: "carol@staying.test", Status: EmployeeStatusActive, OrganizationID: currentOrg,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	affected, err := provider.DeactivateEmployeesOfExpiredLeases(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeactivateEmployeesOfExpiredLeases: %v", err)
	}
	if affected != 1 {
		t.Errorf("deactivated %d employees, want 1", affected)
	}

	gone, _ := provider.GetEmployee(ctx, goneID)
	if gone.Status != EmployeeStatusInactive {
		t.Errorf("expired-lease employee status = %q, want INACTIVE", gone.Status)
	}
	goneCard, _ := provider.FindCardByUID(ctx, "CARD-GONE")
	if goneCard.Status != CardStatusInactive {
		t.Errorf("expired-lease card status = %q, want INACTIVE", goneCard.Status)
	}
	stay, _ := provider.GetEmployee(ctx, stayID)
	if stay.Status != EmployeeStatusActive {
		t.Errorf("current-lease employee status = %q, want ACTIVE", stay.Status)
	}

	// Running again finds nothing left to deactivate.
	affected, err = provider.DeactivateEmployeesOfExpiredLeases(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeactivateEmployeesOfExpiredLeases (repeat): %v", err)
	}
	if affected != 0 {
		t.Errorf("second run deactivated %d employees, want 0", affected)
	}
}

func TestReaderProvisioning(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	if _, err := provider.CreateReader(ctx, Reader{
		ReaderID: "reader-abc", ClientIP: "10.0.0.5", Status: ReaderStatusPending,
	}); err != nil {
		t.Fatalf("CreateReader: %v", err)
	}

	reader, err := provider.GetReader(ctx, "reader-abc")
	if err != nil {
		t.Fatalf("GetReader: %v", err)
	}
	if reader == nil || reader.Status != ReaderStatusPending {
		t.Fatalf("new reader = %+v, want PENDING", reader)
	}

	approver := "ops@example.test"
	if err := provider.UpdateReaderStatus(ctx, "reader-abc", ReaderStatusApproved, &approver); err != nil {
		t.Fatalf("UpdateReaderStatus: %v", err)
	}
	if err := provider.SetReaderKeyHash(ctx, "reader-abc", "$argon2id$test"); err != nil {
		t.Fatalf("SetReaderKeyHash: %v", err)
	}

	reader, _ = provider.GetReader(ctx, "reader-abc")
	if reader.Status != ReaderStatusApproved || reader.ApprovedBy == nil || *reader.ApprovedBy != approver {
		t.Errorf("approved reader = %+v, want APPROVED by %s", reader, approver)
	}
	if reader.KeyHash != "$argon2id$test" {
		t.Errorf("reader key hash = %q, want stored hash", reader.KeyHash)
	}

	pending, err := provider.ListReaders(ctx, ReaderStatusPending)
	if err != nil {
		t.Fatalf("ListReaders: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending readers after approval = %d, want 0", len(pending))
	}

	missing, err := provider.GetReader(ctx, "reader-nope")
	if err != nil {
		t.Fatalf("GetReader (missing): %v", err)
	}
	if missing != nil {
		t.Errorf("GetReader for unknown id = %+v, want nil", missing)
	}
}
