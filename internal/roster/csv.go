// Package roster imports employee rosters from CSV exports of external HR
// systems.
package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"building-access-control/internal/storage"
)

// Definition of fields in a roster CSV
type Definition struct {
	NameField   string
	EmailField  string
	RoleField   string
	StatusField string

	ActiveStatus string

	Source string // which export format this matches
}

// Known field names across the HR exports we accept. Header matching decides
// which definition applies to a given file.
var Definitions = []Definition{
	{
		NameField:    "NAME",
		EmailField:   "EMAIL",
		RoleField:    "ROLE",
		StatusField:  "STATUS",
		ActiveStatus: "Active",
		Source:       "generic",
	},
	{
		NameField:    "FULL NAME",
		EmailField:   "WORK E-MAIL",
		RoleField:    "JOB TITLE",
		StatusField:  "EMPLOYMENT STATUS",
		ActiveStatus: "Employed",
		Source:       "hr-export",
	},
}

type Result struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Store is the slice of the storage provider the importer needs.
type Store interface {
	FindEmployeeByEmail(ctx context.Context, email string) (*storage.Employee, error)
	FindRoleByName(ctx context.Context, name string, organizationID *int64) (*storage.Role, error)
	CreateEmployee(ctx context.Context, e storage.Employee) (int64, error)
}

type Importer struct {
	provider Store
	logger   *slog.Logger
}

func NewImporter(provider Store) *Importer {
	return &Importer{
		provider: provider,
		logger:   slog.With("component", "roster"),
	}
}

// ImportFile reads a roster CSV and creates an employee row per record under
// the given organization. Rows with an email that already exists are skipped,
// rows naming an unknown role import without one. Employees whose status
// column does not match the definition's active marker import as INACTIVE.
func (imp *Importer) ImportFile(ctx context.Context, csvFile string, organizationID int64) (*Result, error) {
	f, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader, err := newBOMAwareReader(f)
	if err != nil {
		return nil, err
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = 0

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	def, fields, err := matchDefinition(headers)
	if err != nil {
		return nil, err
	}
	imp.logger.Debug("Roster format detected", "source", def.Source, "file", csvFile)

	result := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		if err := imp.importRecord(ctx, def, fields, record, organizationID, result); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	return result, nil
}

type fieldIndexes struct {
	name, email, role, status int
}

func matchDefinition(headers []string) (Definition, fieldIndexes, error) {
	for _, def := range Definitions {
		idx := fieldIndexes{name: -1, email: -1, role: -1, status: -1}
		for i, h := range headers {
			switch strings.TrimSpace(h) {
			case def.NameField:
				idx.name = i
			case def.EmailField:
				idx.email = i
			case def.RoleField:
				idx.role = i
			case def.StatusField:
				idx.status = i
			}
		}
		if idx.name != -1 && idx.email != -1 {
			return def, idx, nil
		}
	}
	return Definition{}, fieldIndexes{}, fmt.Errorf("CSV file missing required fields")
}

func (imp *Importer) importRecord(ctx context.Context, def Definition, idx fieldIndexes, record []string, organizationID int64, result *Result) error {
	name := strings.TrimSpace(record[idx.name])
	email := strings.ToLower(strings.TrimSpace(record[idx.email]))
	if name == "" || email == "" {
		result.Skipped++
		return nil
	}

	existing, err := imp.provider.FindEmployeeByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", email, err)
	}
	if existing != nil {
		imp.logger.Debug("Employee already exists, skipping", "email", email)
		result.Skipped++
		return nil
	}

	status := storage.EmployeeStatusActive
	if idx.status != -1 && strings.TrimSpace(record[idx.status]) != def.ActiveStatus {
		status = storage.EmployeeStatusInactive
	}

	var roleID *int64
	if idx.role != -1 {
		roleName := strings.TrimSpace(record[idx.role])
		if roleName != "" {
			role, err := imp.provider.FindRoleByName(ctx, roleName, &organizationID)
			if err != nil {
				return fmt.Errorf("%s: %w", email, err)
			}
			if role == nil {
				// Fall back to the system roles
				role, err = imp.provider.FindRoleByName(ctx, roleName, nil)
				if err != nil {
					return fmt.Errorf("%s: %w", email, err)
				}
			}
			if role != nil {
				roleID = &role.ID
			} else {
				imp.logger.Warn("Unknown role in roster, importing without role", "email", email, "role", roleName)
			}
		}
	}

	if _, err := imp.provider.CreateEmployee(ctx, storage.Employee{
		Name:           name,
		Email:          email,
		Status:         status,
		OrganizationID: organizationID,
		RoleID:         roleID,
	}); err != nil {
		return fmt.Errorf("%s: %w", email, err)
	}
	result.Imported++
	return nil
}

// newBOMAwareReader detects a UTF-16 BOM and decodes accordingly. Several HR
// systems export UTF-16 with BOM.
func newBOMAwareReader(f *os.File) (*csv.Reader, error) {
	bom := make([]byte, 2)
	n, err := f.Read(bom)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read BOM: %w", err)
	}

	if n == 2 && (bom[0] == 0xFE && bom[1] == 0xFF || bom[0] == 0xFF && bom[1] == 0xFE) {
		utf16bom := unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
		decoded := transform.NewReader(io.MultiReader(
			// Prepend BOM bytes back to stream
			strings.NewReader(string(bom)),
			f,
		), utf16bom)
		return csv.NewReader(decoded), nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek file: %w", err)
	}
	return csv.NewReader(f), nil
}
