package access

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"building-access-control/internal/storage"
)

type fakeStore struct {
	cards map[string]*storage.CardDetail
	doors map[int64]*storage.DoorDetail
	perms []storage.Permission

	failWith error
}

func (s *fakeStore) CardByUID(ctx context.Context, cardUID string) (*storage.CardDetail, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.cards[cardUID], nil
}

func (s *fakeStore) DoorByID(ctx context.Context, id int64) (*storage.DoorDetail, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.doors[id], nil
}

func (s *fakeStore) PermissionsForRole(ctx context.Context, roleID int64, doorGroupIDs []int64) ([]storage.Permission, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []storage.Permission
	for _, p := range s.perms {
		if p.RoleID == roleID && slices.Contains(doorGroupIDs, p.DoorGroupID) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSink struct {
	entries  []storage.AccessLog
	failWith error
}

func (s *fakeSink) AppendAccessLog(ctx context.Context, entry storage.AccessLog) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.entries = append(s.entries, entry)
	return nil
}

func roleID(id int64) *int64 {
	return &id
}

// testStore builds a store with an active card "CARD-1" held by an active
// employee with role 1, and door 10 in the PRIVATE group 100.
func testStore() *fakeStore {
	return &fakeStore{
		cards: map[string]*storage.CardDetail{
			"CARD-1": {
				AccessCard: storage.AccessCard{ID: 1, CardUID: "CARD-1", EmployeeID: 5, Status: storage.CardStatusActive},
				Employee:   &storage.Employee{ID: 5, Name: "Alice Chen", Status: storage.EmployeeStatusActive, RoleID: roleID(1)},
				Role:       &storage.Role{ID: 1, Name: "Manager"},
			},
		},
		doors: map[int64]*storage.DoorDetail{
			10: {
				Door:     storage.Door{ID: 10, Name: "West Wing"},
				Groups:   []storage.DoorGroup{{ID: 100, Name: "Private Offices", Type: storage.DoorGroupPrivate}},
				Timezone: "UTC",
			},
		},
	}
}

func testEngine(store *fakeStore, sink *fakeSink, at time.Time) *Engine {
	return NewEngine(store, sink, WithClock(func() time.Time { return at }))
}

var noon = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestVerify_GrantedAlways(t *testing.T) {
	store := testStore()
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 100, AccessType: storage.AccessAlways},
	}
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)

	if result.Status != StatusGranted {
		t.Fatalf("status = %q, want GRANTED (message: %q)", result.Status, result.Message)
	}
	if result.Message != "Access granted" {
		t.Errorf("message = %q", result.Message)
	}
	if result.Employee == nil || result.Employee.Name != "Alice Chen" || result.Employee.Role != "Manager" {
		t.Errorf("employee attachment = %+v", result.Employee)
	}
	if result.Timestamp == "" {
		t.Error("timestamp missing")
	}

	if len(sink.entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Status != storage.AccessGranted || entry.DenialReason != nil {
		t.Errorf("log entry = %+v", entry)
	}
	if entry.CardUID != "CARD-1" || entry.DoorID != 10 {
		t.Errorf("log entry identifiers = %+v", entry)
	}
}

func TestVerify_NoPermission(t *testing.T) {
	store := testStore()
	// Role 1 holds a grant, but only on an unrelated group
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 999, AccessType: storage.AccessAlways},
	}
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)

	if result.Status != StatusDenied || result.Message != ReasonNoPermission {
		t.Fatalf("result = %+v", result)
	}
	if result.Employee != nil {
		t.Error("denied result must not attach employee details")
	}
	assertLoggedDenial(t, sink, ReasonNoPermission)
}

func TestVerify_CardNotFound(t *testing.T) {
	sink := &fakeSink{}
	e := testEngine(testStore(), sink, noon)

	result := e.Verify(context.Background(), "UNKNOWN", 10)

	if result.Status != StatusDenied || result.Message != ReasonCardNotFound {
		t.Fatalf("result = %+v", result)
	}
	assertLoggedDenial(t, sink, ReasonCardNotFound)
}

// A blocked card is reported as blocked even when later checks would also
// fail: the earliest check in the sequence decides the reason.
func TestVerify_BlockedCardPrecedence(t *testing.T) {
	store := testStore()
	store.cards["CARD-1"].Status = storage.CardStatusBlocked
	store.doors = nil // door lookup would also fail
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)

	if result.Status != StatusDenied || result.Message != "Card is BLOCKED" {
		t.Fatalf("result = %+v", result)
	}
	assertLoggedDenial(t, sink, "Card is BLOCKED")
}

func TestVerify_EmployeeMissing(t *testing.T) {
	store := testStore()
	store.cards["CARD-1"].Employee = nil
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)
	if result.Message != ReasonEmployeeNotFound {
		t.Fatalf("result = %+v", result)
	}
}

func TestVerify_EmployeeInactive(t *testing.T) {
	store := testStore()
	store.cards["CARD-1"].Employee.Status = storage.EmployeeStatusInactive
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)
	if result.Message != ReasonEmployeeInactive {
		t.Fatalf("result = %+v", result)
	}
}

func TestVerify_NoRole(t *testing.T) {
	store := testStore()
	store.cards["CARD-1"].Role = nil
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)
	if result.Message != ReasonNoRole {
		t.Fatalf("result = %+v", result)
	}
}

func TestVerify_DoorNotFound(t *testing.T) {
	store := testStore()
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 100, AccessType: storage.AccessAlways},
	}
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 99)
	if result.Message != ReasonDoorNotFound {
		t.Fatalf("result = %+v", result)
	}
}

// A door without groups can never grant, even when the role holds broad
// grants elsewhere.
func TestVerify_DoorWithoutGroups(t *testing.T) {
	store := testStore()
	store.doors[10].Groups = nil
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 100, AccessType: storage.AccessAlways},
		{RoleID: 1, DoorGroupID: 999, AccessType: storage.AccessAlways},
	}
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)
	if result.Message != ReasonDoorNoGroups {
		t.Fatalf("result = %+v", result)
	}
}

func TestVerify_TimeBound(t *testing.T) {
	store := testStore()
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 100, AccessType: storage.AccessTimeBound, StartTime: str("09:00:00"), EndTime: str("17:00:00")},
	}

	// 12:00 building-local: inside the window
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)
	result := e.Verify(context.Background(), "CARD-1", 10)
	if result.Status != StatusGranted || result.Message != "Access granted (time-bound)" {
		t.Fatalf("result = %+v", result)
	}

	// 18:00 building-local: outside
	evening := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	sink = &fakeSink{}
	e = testEngine(store, sink, evening)
	result = e.Verify(context.Background(), "CARD-1", 10)
	if result.Status != StatusDenied || result.Message != ReasonOutsideTimeRange {
		t.Fatalf("result = %+v", result)
	}
	assertLoggedDenial(t, sink, ReasonOutsideTimeRange)
}

func TestVerify_TimeBoundUsesBuildingTimezone(t *testing.T) {
	store := testStore()
	store.doors[10].Timezone = "America/New_York"
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 100, AccessType: storage.AccessTimeBound, StartTime: str("09:00:00"), EndTime: str("17:00:00")},
	}
	sink := &fakeSink{}

	// 20:00 UTC is 15:00 in New York in January: inside the window there,
	// outside it in UTC.
	at := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	e := testEngine(store, sink, at)

	result := e.Verify(context.Background(), "CARD-1", 10)
	if result.Status != StatusGranted {
		t.Fatalf("result = %+v", result)
	}
}

func TestVerify_StoreFailure(t *testing.T) {
	store := testStore()
	store.failWith = errors.New("connection refused")
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)

	if result.Status != StatusDenied || result.Message != ReasonSystemError {
		t.Fatalf("result = %+v", result)
	}
	// The log row carries the internal reason, not the caller-facing one
	assertLoggedDenial(t, sink, "System error during verification")
}

func TestVerify_LogFailureDoesNotChangeResult(t *testing.T) {
	store := testStore()
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 100, AccessType: storage.AccessAlways},
	}
	sink := &fakeSink{failWith: errors.New("disk full")}
	e := testEngine(store, sink, noon)

	result := e.Verify(context.Background(), "CARD-1", 10)

	if result.Status != StatusGranted {
		t.Fatalf("log failure leaked into the result: %+v", result)
	}
	if e.DroppedLogWrites() != 1 {
		t.Errorf("DroppedLogWrites = %d, want 1", e.DroppedLogWrites())
	}
}

func TestVerify_Idempotent(t *testing.T) {
	store := testStore()
	store.perms = []storage.Permission{
		{RoleID: 1, DoorGroupID: 100, AccessType: storage.AccessAlways},
	}
	sink := &fakeSink{}
	e := testEngine(store, sink, noon)

	first := e.Verify(context.Background(), "CARD-1", 10)
	second := e.Verify(context.Background(), "CARD-1", 10)

	if first.Status != second.Status || first.Message != second.Message {
		t.Errorf("repeated calls diverged: %+v vs %+v", first, second)
	}
	if len(sink.entries) != 2 {
		t.Errorf("expected two independent log rows, got %d", len(sink.entries))
	}
}

func TestVerify_NotifierCalledForBlockedCard(t *testing.T) {
	store := testStore()
	store.cards["CARD-1"].Status = storage.CardStatusBlocked
	sink := &fakeSink{}

	alerted := make(chan storage.CardStatus, 1)
	notifier := notifierFunc(func(ctx context.Context, cardUID string, status storage.CardStatus, doorID int64) {
		alerted <- status
	})

	e := NewEngine(store, sink, WithClock(func() time.Time { return noon }), WithNotifier(notifier))

	result := e.Verify(context.Background(), "CARD-1", 10)
	if result.Message != "Card is BLOCKED" {
		t.Fatalf("result = %+v", result)
	}

	select {
	case status := <-alerted:
		if status != storage.CardStatusBlocked {
			t.Errorf("alert status = %q", status)
		}
	case <-time.After(time.Second):
		t.Fatal("notifier was not called")
	}
}

type notifierFunc func(ctx context.Context, cardUID string, status storage.CardStatus, doorID int64)

func (f notifierFunc) CardAlert(ctx context.Context, cardUID string, status storage.CardStatus, doorID int64) {
	f(ctx, cardUID, status, doorID)
}

func assertLoggedDenial(t *testing.T, sink *fakeSink, reason string) {
	t.Helper()
	if len(sink.entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Status != storage.AccessDenied {
		t.Errorf("log status = %q, want DENIED", entry.Status)
	}
	if entry.DenialReason == nil || *entry.DenialReason != reason {
		t.Errorf("log denial reason = %v, want %q", entry.DenialReason, reason)
	}
}
