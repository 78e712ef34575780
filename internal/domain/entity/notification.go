package entity

import "time"

// NotificationType clasifica el aviso para el cliente web.
type NotificationType string

const (
	NotificationPayment          NotificationType = "payment"
	NotificationDueDate          NotificationType = "due_date"
	NotificationApproval         NotificationType = "approval"
	NotificationRejection        NotificationType = "rejection"
	NotificationAlert            NotificationType = "alert"
	NotificationSystem           NotificationType = "system"
	NotificationReceiptIssued    NotificationType = "receipt_issued"
	NotificationProformaInvoice  NotificationType = "proforma_invoice"
	NotificationBillboardExpired NotificationType = "billboard_expired"
)

// Notification aviso persistido para un usuario.
// DedupeKey, si no está vacío, impide crear dos avisos con la misma clave.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]any
	SendEmail bool
	DedupeKey string
	IsRead    bool
	EmailSent bool
	CreatedAt time.Time
}
