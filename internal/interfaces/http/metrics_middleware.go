package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware mide duración y código de cada petición por ruta registrada.
func MetricsMiddleware(m HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		// ruta con parámetros para no disparar la cardinalidad
		m.ObserveHTTP(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
