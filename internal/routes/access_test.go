package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"building-access-control/internal/access"
	"building-access-control/internal/config"
	jwtpkg "building-access-control/internal/jwt"
	"building-access-control/internal/rbac"
	"building-access-control/internal/storage"

	"github.com/gin-gonic/gin"
)

type verifyStore struct {
	cards map[string]*storage.CardDetail
	doors map[int64]*storage.DoorDetail
	perms []storage.Permission

	logged []storage.AccessLog
}

func (s *verifyStore) CardByUID(ctx context.Context, cardUID string) (*storage.CardDetail, error) {
	return s.cards[cardUID], nil
}

func (s *verifyStore) DoorByID(ctx context.Context, id int64) (*storage.DoorDetail, error) {
	return s.doors[id], nil
}

func (s *verifyStore) PermissionsForRole(ctx context.Context, roleID int64, doorGroupIDs []int64) ([]storage.Permission, error) {
	return s.perms, nil
}

func (s *verifyStore) AppendAccessLog(ctx context.Context, entry storage.AccessLog) error {
	s.logged = append(s.logged, entry)
	return nil
}

func newVerifyRouter(store *verifyStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	api := r.Group("/api/v1")
	VerifyRoute(api, access.NewEngine(store, store))
	return r
}

func seededStore() *verifyStore {
	roleID := int64(1)
	return &verifyStore{
		cards: map[string]*storage.CardDetail{
			"CARD-7": {
				AccessCard: storage.AccessCard{ID: 1, CardUID: "CARD-7", EmployeeID: 2, Status: storage.CardStatusActive},
				Employee:   &storage.Employee{ID: 2, Name: "Alice Chen", Status: storage.EmployeeStatusActive, RoleID: &roleID},
				Role:       &storage.Role{ID: 1, Name: "Manager"},
			},
		},
		doors: map[int64]*storage.DoorDetail{
			10: {
				Door:     storage.Door{ID: 10, Name: "Main Entrance"},
				Groups:   []storage.DoorGroup{{ID: 5, Type: storage.DoorGroupPublic}},
				Timezone: "UTC",
			},
		},
		perms: []storage.Permission{
			{RoleID: 1, DoorGroupID: 5, AccessType: storage.AccessAlways},
		},
	}
}

func postVerify(t *testing.T, r *gin.Engine, body string) (int, access.Result) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/access/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var result access.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, result
}

func TestVerifyEndpoint_Granted(t *testing.T) {
	store := seededStore()
	r := newVerifyRouter(store)

	code, result := postVerify(t, r, `{"card_uid":"CARD-7","door_id":10}`)

	if code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if result.Status != access.StatusGranted || result.Message != "Access granted" {
		t.Fatalf("result = %+v", result)
	}
	if result.Employee == nil || result.Employee.Name != "Alice Chen" {
		t.Errorf("employee = %+v", result.Employee)
	}
	if len(store.logged) != 1 {
		t.Errorf("expected one log row, got %d", len(store.logged))
	}
}

func TestVerifyEndpoint_UnknownCard(t *testing.T) {
	r := newVerifyRouter(seededStore())

	code, result := postVerify(t, r, `{"card_uid":"NOPE","door_id":10}`)

	if code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if result.Status != access.StatusDenied || result.Message != access.ReasonCardNotFound {
		t.Fatalf("result = %+v", result)
	}
}

// A reader sending garbage still gets a well-formed 200 denial, never a 400.
// The message is distinct from any card denial reason: no card was looked up.
func TestVerifyEndpoint_MalformedBody(t *testing.T) {
	r := newVerifyRouter(seededStore())

	code, result := postVerify(t, r, `{"card_uid":`)

	if code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if result.Status != access.StatusDenied {
		t.Fatalf("result = %+v", result)
	}
	if result.Message != "Invalid request" {
		t.Errorf("message = %q, want %q", result.Message, "Invalid request")
	}
	if result.Message == access.ReasonCardNotFound {
		t.Errorf("malformed body must not report a card lookup result")
	}
}

func writePolicy(t *testing.T) string {
	t.Helper()
	policy := `
default_role: viewer
roles:
  viewer:
    permissions:
      - resource: "*"
        actions: ["read"]
  admin:
    permissions:
      - resource: "*"
        actions: ["*"]
users:
  admin@example.test:
    roles: ["admin"]
`
	path := filepath.Join(t.TempDir(), "rbac.yaml")
	if err := os.WriteFile(path, []byte(policy), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAuthAndRBAC(t *testing.T) {
	config.Cfg = &config.Config{Secret: "test-secret", TokenTTL: 60}

	authz := rbac.New()
	if err := authz.LoadPolicy(writePolicy(t)); err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	g := r.Group("/api/v1", AuthMiddleware(), ResourcePermission(authz, "doors"))
	g.GET("/doors", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.POST("/doors", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) })

	do := func(method, token string) int {
		req := httptest.NewRequest(method, "/api/v1/doors", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	// No token
	if code := do(http.MethodGet, ""); code != http.StatusUnauthorized {
		t.Errorf("unauthenticated request: code = %d", code)
	}

	viewerToken, err := jwtpkg.GenerateJWT(jwtpkg.NewOperatorClaim("viewer@example.test", nil))
	if err != nil {
		t.Fatal(err)
	}
	adminToken, err := jwtpkg.GenerateJWT(jwtpkg.NewOperatorClaim("admin@example.test", nil))
	if err != nil {
		t.Fatal(err)
	}

	// Viewer may read but not write
	if code := do(http.MethodGet, viewerToken); code != http.StatusOK {
		t.Errorf("viewer GET: code = %d", code)
	}
	if code := do(http.MethodPost, viewerToken); code != http.StatusForbidden {
		t.Errorf("viewer POST: code = %d", code)
	}

	// Admin may do both
	if code := do(http.MethodGet, adminToken); code != http.StatusOK {
		t.Errorf("admin GET: code = %d", code)
	}
	if code := do(http.MethodPost, adminToken); code != http.StatusCreated {
		t.Errorf("admin POST: code = %d", code)
	}
}
