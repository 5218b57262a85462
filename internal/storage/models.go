package storage

import "time"

type CardStatus string

const (
	CardStatusActive   CardStatus = "ACTIVE"
	CardStatusInactive CardStatus = "INACTIVE"
	CardStatusLost     CardStatus = "LOST"
	CardStatusBlocked  CardStatus = "BLOCKED"
)

type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive EmployeeStatus = "INACTIVE"
)

type DoorGroupType string

const (
	DoorGroupPublic     DoorGroupType = "PUBLIC"
	DoorGroupPrivate    DoorGroupType = "PRIVATE"
	DoorGroupRestricted DoorGroupType = "RESTRICTED"
)

type AccessType string

const (
	AccessAlways    AccessType = "ALWAYS"
	AccessTimeBound AccessType = "TIME_BOUND"
)

type AccessStatus string

const (
	AccessGranted AccessStatus = "GRANTED"
	AccessDenied  AccessStatus = "DENIED"
)

type ReaderStatus string

const (
	ReaderStatusPending  ReaderStatus = "PENDING"
	ReaderStatusApproved ReaderStatus = "APPROVED"
	ReaderStatusRejected ReaderStatus = "REJECTED"
)

type Organization struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Building struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Timezone  string    `db:"timezone" json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Floor struct {
	ID          int64 `db:"id" json:"id"`
	BuildingID  int64 `db:"building_id" json:"building_id"`
	FloorNumber int   `db:"floor_number" json:"floor_number"`
}

type OfficeSpace struct {
	ID      int64  `db:"id" json:"id"`
	FloorID int64  `db:"floor_id" json:"floor_id"`
	Name    string `db:"name" json:"name"`
}

type Lease struct {
	ID             int64  `db:"id" json:"id"`
	OrganizationID int64  `db:"organization_id" json:"organization_id"`
	OfficeSpaceID  int64  `db:"office_space_id" json:"office_space_id"`
	StartDate      string `db:"start_date" json:"start_date"` // YYYY-MM-DD
	EndDate        string `db:"end_date" json:"end_date"`     // YYYY-MM-DD
}

type Role struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Description    string `db:"description" json:"description"`
	IsSystemRole   bool   `db:"is_system_role" json:"is_system_role"`
	OrganizationID *int64 `db:"organization_id" json:"organization_id,omitempty"`
}

type DoorGroup struct {
	ID          int64         `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Type        DoorGroupType `db:"type" json:"type"`
	Description string        `db:"description" json:"description"`
}

type Door struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Location      string `db:"location" json:"location"`
	FloorID       *int64 `db:"floor_id" json:"floor_id,omitempty"`
	OfficeSpaceID *int64 `db:"office_space_id" json:"office_space_id,omitempty"`
}

type Employee struct {
	ID             int64          `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	Status         EmployeeStatus `db:"status" json:"status"`
	OrganizationID int64          `db:"organization_id" json:"organization_id"`
	RoleID         *int64         `db:"role_id" json:"role_id,omitempty"`
}

type AccessCard struct {
	ID         int64      `db:"id" json:"id"`
	CardUID    string     `db:"card_uid" json:"card_uid"`
	EmployeeID int64      `db:"employee_id" json:"employee_id"`
	Status     CardStatus `db:"status" json:"status"`
	IssuedAt   time.Time  `db:"issued_at" json:"issued_at"`
}

type Permission struct {
	ID          int64      `db:"id" json:"id"`
	RoleID      int64      `db:"role_id" json:"role_id"`
	DoorGroupID int64      `db:"door_group_id" json:"door_group_id"`
	AccessType  AccessType `db:"access_type" json:"access_type"`
	StartTime   *string    `db:"start_time" json:"start_time,omitempty"` // HH:mm:ss
	EndTime     *string    `db:"end_time" json:"end_time,omitempty"`     // HH:mm:ss
}

type AccessLog struct {
	ID           int64        `db:"id" json:"id"`
	CardUID      string       `db:"card_uid" json:"card_uid"`
	DoorID       int64        `db:"door_id" json:"door_id"`
	Status       AccessStatus `db:"status" json:"status"`
	DenialReason *string      `db:"denial_reason" json:"denial_reason"`
	Timestamp    time.Time    `db:"timestamp" json:"timestamp"`
}

// Reader is a provisioned card reader device. Readers self-register as
// PENDING and must be approved by an operator before their key is issued.
type Reader struct {
	ID         int64        `db:"id" json:"id"`
	ReaderID   string       `db:"reader_id" json:"reader_id"`
	DoorID     *int64       `db:"door_id" json:"door_id,omitempty"`
	ClientIP   string       `db:"client_ip" json:"client_ip"`
	Status     ReaderStatus `db:"status" json:"status"`
	KeyHash    string       `db:"key_hash" json:"-"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	ApprovedBy *string      `db:"approved_by" json:"approved_by,omitempty"`
}

// CardDetail is the read join the verification engine consumes: the card
// together with its owning employee and the employee's role, in one fetch.
// Employee and Role are nil when the referenced row is missing.
type CardDetail struct {
	AccessCard
	Employee *Employee
	Role     *Role
}

// DoorDetail is the door together with its assigned groups and, transitively,
// its building's IANA timezone ("UTC" when the door has no building).
type DoorDetail struct {
	Door
	Groups   []DoorGroup
	Timezone string
}

type AccessStats struct {
	Total   int `json:"total"`
	Granted int `json:"granted"`
	Denied  int `json:"denied"`
}
