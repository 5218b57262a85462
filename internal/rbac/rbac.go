// Package rbac implements role based access control for operator accounts.
// Policy is loaded from a YAML file and maps operator emails to named roles,
// roles to resource/action grants, and roles to inherited roles.
//
// This controls who may call the management API. It is unrelated to the
// door permission model evaluated by the verification engine.
package rbac

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type Permission struct {
	Resource string   `yaml:"resource"`
	Actions  []string `yaml:"actions"`
}

type Role struct {
	Description string       `yaml:"description"`
	Permissions []Permission `yaml:"permissions"`
}

type Policy struct {
	DefaultRole string          `yaml:"default_role"`
	Roles       map[string]Role `yaml:"roles"`
	Users       map[string]struct {
		Roles []string `yaml:"roles"`
	} `yaml:"users"`
	Inheritance map[string][]string `yaml:"inheritance"`
}

type RBAC struct {
	mu        sync.RWMutex
	policy    *Policy
	userRoles map[string][]string
	cache     map[string]map[string]bool // userID -> "resource:action" -> allowed
}

func New() *RBAC {
	return &RBAC{
		userRoles: make(map[string][]string),
		cache:     make(map[string]map[string]bool),
	}
}

// LoadPolicy reads and installs a policy file, replacing any previous policy
// and clearing the decision cache.
func (r *RBAC) LoadPolicy(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return fmt.Errorf("failed to parse policy file: %w", err)
	}

	r.mu.Lock()
	r.policy = &policy
	r.userRoles = make(map[string][]string)
	for userID, userData := range policy.Users {
		r.userRoles[userID] = userData.Roles
	}
	r.cache = make(map[string]map[string]bool)
	r.mu.Unlock()

	slog.Info("RBAC policy loaded", "roles", len(policy.Roles), "users", len(policy.Users))
	return nil
}

// AssignRole adds roles to a user on top of any existing assignments.
func (r *RBAC) AssignRole(userID string, roles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userRoles[userID] = append(r.userRoles[userID], roles...)
	delete(r.cache, userID)

	slog.Debug("Roles assigned", "userID", userID, "roles", roles)
}

// SetRoles replaces all roles for a user.
func (r *RBAC) SetRoles(userID string, roles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userRoles[userID] = roles
	delete(r.cache, userID)

	slog.Debug("Roles set", "userID", userID, "roles", roles)
}

// GetUserRoles returns all roles for a user, including inherited ones. Users
// with no assignment fall back to the policy's default role.
func (r *RBAC) GetUserRoles(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.userRolesLocked(userID)
}

func (r *RBAC) userRolesLocked(userID string) []string {
	directRoles := r.userRoles[userID]
	if len(directRoles) == 0 && r.policy != nil && r.policy.DefaultRole != "" {
		directRoles = []string{r.policy.DefaultRole}
	}

	allRoles := make(map[string]bool)
	for _, role := range directRoles {
		allRoles[role] = true
		r.addInheritedRoles(role, allRoles)
	}

	result := make([]string, 0, len(allRoles))
	for role := range allRoles {
		result = append(result, role)
	}
	return result
}

func (r *RBAC) addInheritedRoles(role string, roles map[string]bool) {
	if r.policy == nil || r.policy.Inheritance == nil {
		return
	}

	for _, inherited := range r.policy.Inheritance[role] {
		if !roles[inherited] {
			roles[inherited] = true
			r.addInheritedRoles(inherited, roles)
		}
	}
}

// Can reports whether a user may perform an action on a resource. Decisions
// are cached per user until the next policy load or role change.
func (r *RBAC) Can(userID, resource, action string) bool {
	cacheKey := fmt.Sprintf("%s:%s", resource, action)

	r.mu.RLock()
	if r.policy == nil {
		r.mu.RUnlock()
		slog.Warn("RBAC policy not loaded")
		return false
	}
	if cached, exists := r.cache[userID]; exists {
		if allowed, found := cached[cacheKey]; found {
			r.mu.RUnlock()
			return allowed
		}
	}

	allowed := false
	for _, roleName := range r.userRolesLocked(userID) {
		role, exists := r.policy.Roles[roleName]
		if !exists {
			continue
		}
		for _, perm := range role.Permissions {
			if perm.Resource != "*" && perm.Resource != resource {
				continue
			}
			for _, act := range perm.Actions {
				if act == "*" || act == action {
					allowed = true
					break
				}
			}
			if allowed {
				break
			}
		}
		if allowed {
			break
		}
	}
	r.mu.RUnlock()

	r.mu.Lock()
	if r.cache[userID] == nil {
		r.cache[userID] = make(map[string]bool)
	}
	r.cache[userID][cacheKey] = allowed
	r.mu.Unlock()

	return allowed
}
