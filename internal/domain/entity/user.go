package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleFinance    = "finance"
	RoleTechnician = "technician"
	RoleClient     = "client"
)

// User usuario del sistema; los roles internos reciben avisos operativos.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string // admin, finance, technician, client
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
