package entity

import "time"

// Client empresa arrendataria. UserID es el usuario que recibe las notificaciones.
type Client struct {
	ID          string
	UserID      string
	CompanyName string
	Email       string
	Phone       string
	TaxID       string
	CreatedAt   time.Time
}
