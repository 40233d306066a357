package assignment

import (
	"fmt"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// Requirement describes which assignment fields a role demands.
// Delivery points are never required unless companies are.
type Requirement struct {
	CompanyRequired        bool
	MultipleCompanies      bool
	DeliveryPointsRequired bool
}

// requirementsByRole is the single source of truth for the role
// assignment policy. Roles absent from the table require nothing,
// which also covers unresolved role lookups.
var requirementsByRole = map[domain.RoleName]Requirement{
	domain.RoleSuperAdminEmpresa:    {CompanyRequired: true},
	domain.RoleAdministradorEmpresa: {CompanyRequired: true, MultipleCompanies: true},
	domain.RoleAdminPdE:             {CompanyRequired: true, MultipleCompanies: true, DeliveryPointsRequired: true},
	domain.RoleOperadorPdE:          {CompanyRequired: true, MultipleCompanies: true, DeliveryPointsRequired: true},
}

// RequirementsFor returns the assignment policy for a role.
func RequirementsFor(role domain.RoleName) Requirement {
	return requirementsByRole[role]
}

// ValidationErrorKind enumerates validation failures.
type ValidationErrorKind string

const (
	MissingCompany       ValidationErrorKind = "MISSING_COMPANY"
	MissingDeliveryPoint ValidationErrorKind = "MISSING_DELIVERY_POINT"
)

// ValidationError reports why a selection does not satisfy a role's
// requirements. Always recoverable by the caller.
type ValidationError struct {
	Kind ValidationErrorKind
	Role domain.RoleName
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingCompany:
		return fmt.Sprintf("role %s requires at least one company", e.Role)
	case MissingDeliveryPoint:
		return fmt.Sprintf("role %s requires at least one delivery point", e.Role)
	default:
		return fmt.Sprintf("invalid assignment for role %s", e.Role)
	}
}

// Validate checks a selection against the role policy. The company
// check takes precedence over the delivery-point check. Deterministic
// and side-effect free, so it is safe to re-run on every field change.
func Validate(role domain.RoleName, sel Selection) error {
	req := RequirementsFor(role)
	if req.CompanyRequired && len(sel.CompanyIDs) == 0 {
		return &ValidationError{Kind: MissingCompany, Role: role}
	}
	if req.DeliveryPointsRequired && len(sel.DeliveryPointIDs) == 0 {
		return &ValidationError{Kind: MissingDeliveryPoint, Role: role}
	}
	return nil
}

// ReconcileOnRoleChange rewrites a selection so it is legal under the
// new role before any validation runs. Companies are cleared outright
// when the role requires none; a single-company role keeps only the
// first-inserted company. Delivery points whose owner left the company
// set are evicted in the same pass.
func ReconcileOnRoleChange(role domain.RoleName, sel Selection, owners DeliveryPointOwners) Selection {
	req := RequirementsFor(role)

	out := sel.clone()
	switch {
	case !req.CompanyRequired:
		out.CompanyIDs = nil
	case !req.MultipleCompanies && len(out.CompanyIDs) > 1:
		out.CompanyIDs = out.CompanyIDs[:1]
	}
	out.evictOrphanedDeliveryPoints(owners)
	return out
}
