package storage

import (
	"context"
	"log/slog"
	"time"

	"building-access-control/internal/config"
)

// Provider is the data-store contract for the whole system.
//
// Lookup methods return (nil, nil) when the requested row does not exist;
// errors are reserved for store failures. Callers branch on the nil result
// rather than on a sentinel error.
type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Organization methods
	CreateOrganization(ctx context.Context, org Organization) (int64, error)
	GetOrganization(ctx context.Context, id int64) (*Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	UpdateOrganization(ctx context.Context, org Organization) error
	DeleteOrganization(ctx context.Context, id int64) error
	CountOrganizations(ctx context.Context) (int, error)

	// Building, floor and office space methods
	CreateBuilding(ctx context.Context, b Building) (int64, error)
	GetBuilding(ctx context.Context, id int64) (*Building, error)
	ListBuildings(ctx context.Context) ([]Building, error)
	UpdateBuilding(ctx context.Context, b Building) error
	DeleteBuilding(ctx context.Context, id int64) error
	CountBuildings(ctx context.Context) (int, error)
	CreateFloor(ctx context.Context, f Floor) (int64, error)
	GetFloor(ctx context.Context, id int64) (*Floor, error)
	ListFloorsByBuilding(ctx context.Context, buildingID int64) ([]Floor, error)
	CreateOfficeSpace(ctx context.Context, s OfficeSpace) (int64, error)
	GetOfficeSpace(ctx context.Context, id int64) (*OfficeSpace, error)
	ListOfficeSpacesByFloor(ctx context.Context, floorID int64) ([]OfficeSpace, error)

	// Lease methods
	CreateLease(ctx context.Context, l Lease) (int64, error)
	GetLease(ctx context.Context, id int64) (*Lease, error)
	ListLeasesByOrganization(ctx context.Context, orgID int64) ([]Lease, error)
	// DeactivateEmployeesOfExpiredLeases marks employees INACTIVE (and their
	// cards INACTIVE) for organizations that hold leases but no longer hold
	// any active one. Returns the number of employees deactivated.
	DeactivateEmployeesOfExpiredLeases(ctx context.Context, now time.Time) (int64, error)

	// Role methods
	CreateRole(ctx context.Context, r Role) (int64, error)
	GetRole(ctx context.Context, id int64) (*Role, error)
	ListRoles(ctx context.Context, organizationID *int64, systemOnly bool) ([]Role, error)
	FindRoleByName(ctx context.Context, name string, organizationID *int64) (*Role, error)
	UpdateRole(ctx context.Context, r Role) error
	DeleteRole(ctx context.Context, id int64) error

	// Door group methods
	CreateDoorGroup(ctx context.Context, g DoorGroup) (int64, error)
	GetDoorGroup(ctx context.Context, id int64) (*DoorGroup, error)
	FindDoorGroupByType(ctx context.Context, typ DoorGroupType) (*DoorGroup, error)
	ListDoorGroups(ctx context.Context) ([]DoorGroup, error)
	UpdateDoorGroup(ctx context.Context, g DoorGroup) error
	DeleteDoorGroup(ctx context.Context, id int64) error

	// Door methods
	CreateDoor(ctx context.Context, d Door) (int64, error)
	GetDoor(ctx context.Context, id int64) (*Door, error)
	ListDoors(ctx context.Context) ([]Door, error)
	UpdateDoor(ctx context.Context, d Door) error
	DeleteDoor(ctx context.Context, id int64) error
	AssignDoorToGroup(ctx context.Context, doorID, groupID int64) error
	RemoveDoorFromGroup(ctx context.Context, doorID, groupID int64) error
	GroupsForDoor(ctx context.Context, doorID int64) ([]DoorGroup, error)
	DoorsInGroup(ctx context.Context, groupID int64) ([]Door, error)
	// DoorByID is the verification-engine read join: door + groups + timezone.
	DoorByID(ctx context.Context, id int64) (*DoorDetail, error)

	// Employee methods
	CreateEmployee(ctx context.Context, e Employee) (int64, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*Employee, error)
	ListEmployees(ctx context.Context, organizationID *int64, status *EmployeeStatus) ([]Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) error
	SetEmployeeStatus(ctx context.Context, id int64, status EmployeeStatus) error
	DeleteEmployee(ctx context.Context, id int64) error
	CountEmployees(ctx context.Context, status *EmployeeStatus) (int, error)

	// Access card methods
	CreateCard(ctx context.Context, c AccessCard) (int64, error)
	GetCard(ctx context.Context, id int64) (*AccessCard, error)
	FindCardByUID(ctx context.Context, cardUID string) (*AccessCard, error)
	FindCardByEmployee(ctx context.Context, employeeID int64) (*AccessCard, error)
	ListCards(ctx context.Context, status *CardStatus) ([]AccessCard, error)
	SetCardStatus(ctx context.Context, id int64, status CardStatus) error
	DeleteCard(ctx context.Context, id int64) error
	// CardByUID is the verification-engine read join: card + employee + role.
	CardByUID(ctx context.Context, cardUID string) (*CardDetail, error)

	// Permission methods. UpsertPermission updates in place on the
	// (role_id, door_group_id) uniqueness conflict rather than duplicating.
	UpsertPermission(ctx context.Context, p Permission) (int64, error)
	GetPermission(ctx context.Context, id int64) (*Permission, error)
	ListPermissions(ctx context.Context, roleID, doorGroupID *int64) ([]Permission, error)
	PermissionsForRole(ctx context.Context, roleID int64, doorGroupIDs []int64) ([]Permission, error)
	DeletePermission(ctx context.Context, id int64) error
	DeletePermissionByRoleAndGroup(ctx context.Context, roleID, doorGroupID int64) error

	// Access log methods. The log is append-only; nothing mutates or
	// deletes rows.
	AppendAccessLog(ctx context.Context, entry AccessLog) error
	ListAccessLogs(ctx context.Context, filter AccessLogFilter, page, limit int) ([]AccessLog, int, error)
	ListDeniedAttempts(ctx context.Context, filter AccessLogFilter, limit int) ([]AccessLog, error)
	AccessStats(ctx context.Context, filter AccessLogFilter) (AccessStats, error)

	// Reader provisioning methods
	CreateReader(ctx context.Context, r Reader) (int64, error)
	GetReader(ctx context.Context, readerID string) (*Reader, error)
	ListReaders(ctx context.Context, status ReaderStatus) ([]Reader, error)
	UpdateReaderStatus(ctx context.Context, readerID string, status ReaderStatus, approvedBy *string) error
	SetReaderKeyHash(ctx context.Context, readerID string, keyHash string) error
}

// AccessLogFilter narrows access-log queries. Zero values mean "no filter".
type AccessLogFilter struct {
	CardUID   string
	DoorID    int64
	Status    AccessStatus
	StartDate time.Time
	EndDate   time.Time
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.SQLite != nil:
		provider := NewSQLiteProvider(config)
		if provider == nil {
			slog.Error("Failed to open sqlite database", "path", config.SQLite.Path)
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
