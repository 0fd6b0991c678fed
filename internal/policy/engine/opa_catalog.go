package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"hotel-booking-account/backend/internal/role/catalog"
	"hotel-booking-account/backend/internal/role/domain"
)

const (
	policyPackage = "hotelbooking.rbac"
	policyQuery   = "data." + policyPackage + ".permissions"
)

// RoleTable is the static role table a default policy is generated from.
type RoleTable interface {
	Roles() []string
	Permissions(role string) domain.PermissionSet
}

// DefaultRegoPolicy renders table as a Rego module whose permissions rule
// yields the permission list for input.role, or an empty list for an unknown role.
func DefaultRegoPolicy(table RoleTable) (string, error) {
	roles := table.Roles()
	sort.Strings(roles)
	m := make(map[string][]string, len(roles))
	for _, r := range roles {
		m[r] = table.Permissions(r).Slice()
	}
	b, err := json.MarshalIndent(m, "", "\t")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("package " + policyPackage + "\n\n")
	sb.WriteString("default permissions := []\n\n")
	sb.WriteString("permissions := role_permissions[upper(trim_space(input.role))]\n\n")
	sb.WriteString("role_permissions := ")
	sb.Write(b)
	sb.WriteString("\n")
	return sb.String(), nil
}

// OPACatalog resolves role permissions by evaluating a Rego policy.
type OPACatalog struct {
	query    rego.PreparedEvalQuery
	fallback catalog.Catalog
	logger   *slog.Logger
}

// NewOPACatalog compiles module and prepares the permissions query. When
// evaluation fails at request time the fallback catalog answers instead.
func NewOPACatalog(ctx context.Context, module string, fallback catalog.Catalog, logger *slog.Logger) (*OPACatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	compiler, err := ast.CompileModules(map[string]string{"rbac.rego": module})
	if err != nil {
		return nil, fmt.Errorf("compile rbac policy: %w", err)
	}
	pq, err := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare rbac policy: %w", err)
	}
	return &OPACatalog{query: pq, fallback: fallback, logger: logger}, nil
}

// ResolvePermissions implements catalog.Catalog.
func (c *OPACatalog) ResolvePermissions(ctx context.Context, role string) (domain.PermissionSet, error) {
	perms, err := c.eval(ctx, role)
	if err != nil {
		c.logger.WarnContext(ctx, "policy: evaluation failed, using fallback catalog",
			slog.String("role", role), slog.Any("error", err))
		if c.fallback == nil {
			return domain.PermissionSet{}, nil
		}
		return c.fallback.ResolvePermissions(ctx, role)
	}
	return perms, nil
}

// HealthCheck evaluates the prepared query for a fixed role.
func (c *OPACatalog) HealthCheck(ctx context.Context) error {
	_, err := c.eval(ctx, domain.RoleUser)
	return err
}

func (c *OPACatalog) eval(ctx context.Context, role string) (domain.PermissionSet, error) {
	rs, err := c.query.Eval(ctx, rego.EvalInput(map[string]interface{}{"role": role}))
	if err != nil {
		return nil, fmt.Errorf("eval rbac policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return domain.PermissionSet{}, nil
	}
	values, ok := rs[0].Expressions[0].Value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("rbac policy: permissions is %T, want array", rs[0].Expressions[0].Value)
	}
	perms := make(domain.PermissionSet, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("rbac policy: permission %v is not a string", v)
		}
		perms[s] = struct{}{}
	}
	return perms, nil
}
