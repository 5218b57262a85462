package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"building-access-control/internal/storage"
)

type memStore struct {
	employees []storage.Employee
	roles     map[string]*storage.Role
}

func (s *memStore) FindEmployeeByEmail(ctx context.Context, email string) (*storage.Employee, error) {
	for i := range s.employees {
		if s.employees[i].Email == email {
			return &s.employees[i], nil
		}
	}
	return nil, nil
}

func (s *memStore) FindRoleByName(ctx context.Context, name string, organizationID *int64) (*storage.Role, error) {
	return s.roles[name], nil
}

func (s *memStore) CreateEmployee(ctx context.Context, e storage.Employee) (int64, error) {
	e.ID = int64(len(s.employees) + 1)
	s.employees = append(s.employees, e)
	return e.ID, nil
}

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportFile(t *testing.T) {
	store := &memStore{roles: map[string]*storage.Role{
		"Manager": {ID: 2, Name: "Manager"},
	}}
	importer := NewImporter(store)

	path := writeRoster(t, "NAME,EMAIL,ROLE,STATUS\n"+
		"Alice Chen,alice@acme.test,Manager,Active\n"+
		"Bob Osei,bob@acme.test,Unknown Role,Active\n"+
		"Carol Díaz,carol@acme.test,Manager,Terminated\n")

	result, err := importer.ImportFile(context.Background(), path, 1)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}

	if result.Imported != 3 || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}

	alice, _ := store.FindEmployeeByEmail(context.Background(), "alice@acme.test")
	if alice == nil || alice.RoleID == nil || *alice.RoleID != 2 {
		t.Errorf("alice = %+v", alice)
	}
	if alice.Status != storage.EmployeeStatusActive {
		t.Errorf("alice status = %q", alice.Status)
	}

	bob, _ := store.FindEmployeeByEmail(context.Background(), "bob@acme.test")
	if bob == nil || bob.RoleID != nil {
		t.Errorf("unknown role should import without role: %+v", bob)
	}

	carol, _ := store.FindEmployeeByEmail(context.Background(), "carol@acme.test")
	if carol == nil || carol.Status != storage.EmployeeStatusInactive {
		t.Errorf("non-active status should import as INACTIVE: %+v", carol)
	}
}

func TestImportFile_SkipsExisting(t *testing.T) {
	store := &memStore{
		employees: []storage.Employee{{ID: 1, Email: "alice@acme.test"}},
		roles:     map[string]*storage.Role{},
	}
	importer := NewImporter(store)

	path := writeRoster(t, "NAME,EMAIL,ROLE,STATUS\n"+
		"Alice Chen,ALICE@acme.test,,Active\n")

	result, err := importer.ImportFile(context.Background(), path, 1)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestImportFile_AlternateHeader(t *testing.T) {
	store := &memStore{roles: map[string]*storage.Role{}}
	importer := NewImporter(store)

	path := writeRoster(t, "FULL NAME,WORK E-MAIL,JOB TITLE,EMPLOYMENT STATUS\n"+
		"Dan Kovac,dan@acme.test,,Employed\n")

	result, err := importer.ImportFile(context.Background(), path, 1)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestImportFile_MissingFields(t *testing.T) {
	store := &memStore{roles: map[string]*storage.Role{}}
	importer := NewImporter(store)

	path := writeRoster(t, "FOO,BAR\nx,y\n")

	if _, err := importer.ImportFile(context.Background(), path, 1); err == nil {
		t.Fatal("expected error for unrecognized header")
	}
}
