package domain

import "time"

// RoleName enumerates the closed set of privilege tiers.
type RoleName string

const (
	RoleSuperAdmin           RoleName = "SuperAdmin"
	RoleSuperAdminEmpresa    RoleName = "SuperAdminEmpresa"
	RoleAdministradorEmpresa RoleName = "AdministradorEmpresa"
	RoleAdminPdE             RoleName = "AdminPdE"
	RoleOperadorPdE          RoleName = "OperadorPdE"
)

// Role is immutable reference data loaded once per session.
type Role struct {
	ID        string
	Name      RoleName
	Level     int
	CreatedAt time.Time
}

// AdminTier reports whether the role may perform review transitions
// and invitations. Level is display-only and never consulted here.
func (r RoleName) AdminTier() bool {
	return r == RoleSuperAdmin || r == RoleSuperAdminEmpresa
}
