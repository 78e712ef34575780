package domain

import "time"

// Clock abstrae la hora actual para que las reglas de fechas sean deterministas en tests.
type Clock interface {
	Now() time.Time
}

// SystemClock devuelve la hora del sistema en la zona horaria configurada.
type SystemClock struct {
	Location *time.Location
}

// Now implementa Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
