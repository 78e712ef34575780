package entity

import "time"

// Acciones registradas en la bitácora de auditoría.
const (
	AuditValidatePayment       = "VALIDATE_PAYMENT"
	AuditRejectPayment         = "REJECT_PAYMENT"
	AuditGenerateProforma      = "GENERATE_PROFORMA"
	AuditBillboardStatusChange = "BILLBOARD_STATUS_CHANGE"
)

// ActorSystem identifica acciones ejecutadas por procesos automáticos.
const ActorSystem = "system"

// AuditLog entrada inmutable de auditoría con valores antes/después.
type AuditLog struct {
	ID         string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	OldValues  map[string]any
	NewValues  map[string]any
	CreatedAt  time.Time
}
