// Package permission guards admin resources with a casbin role/resource/action model.
package permission

import (
	"fmt"
	"slices"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/models"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

const (
	ResourceDashboard = "dashboard"
	ResourcePayment   = "payment"

	ActionRead = "read"
)

var (
	Resources = []string{ResourceDashboard, ResourcePayment}
	Actions   = []string{ActionRead}
)

// Validate rejects resources and actions no route checks against.
func Validate(resource, action string) error {
	if !slices.Contains(Resources, resource) {
		return fmt.Errorf("unknown resource %q", resource)
	}
	if !slices.Contains(Actions, action) {
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

// DefaultPolicies are seeded on start; existing rows are left untouched.
var DefaultPolicies = [][]string{
	{string(models.UserRoleAdmin), ResourceDashboard, ActionRead},
	{string(models.UserRoleAdmin), ResourcePayment, ActionRead},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.SugaredLogger
}

// NewEnforcer persists policies in the casbin_rule table.
func NewEnforcer(db *gorm.DB, l *zap.SugaredLogger) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return seed(e, l)
}

// NewMemoryEnforcer keeps policies in memory only.
func NewMemoryEnforcer(l *zap.SugaredLogger) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return seed(e, l)
}

func seed(e *casbin.Enforcer, l *zap.SugaredLogger) (*Enforcer, error) {
	for _, p := range DefaultPolicies {
		has, err := e.HasPolicy(p[0], p[1], p[2])
		if err != nil {
			return nil, fmt.Errorf("failed to check policy: %w", err)
		}
		if has {
			continue
		}
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("failed to seed policy %v: %w", p, err)
		}
	}
	return &Enforcer{enforcer: e, logger: l}, nil
}

// Enforce reports whether role may perform action on resource.
func (e *Enforcer) Enforce(role, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

func (e *Enforcer) AddPolicy(role, resource, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to add policy", "error", err)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

func (e *Enforcer) RemovePolicy(role, resource, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(NewEnforcer),
)
