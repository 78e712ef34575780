// Package money formatea importes para textos dirigidos a personas
// (avisos, correos y PDF). Los cálculos nunca pasan por aquí.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formatea importes con separadores del idioma configurado.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter construye el formateador; lang es una etiqueta BCP 47 (ej. "pt-MZ").
func NewFormatter(lang, currency string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Portuguese
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: currency}
}

// Format devuelve el importe redondeado a 2 decimales seguido de la moneda.
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.printer.Sprintf("%.2f %s", amount.Round(2).InexactFloat64(), f.currency)
}

// Currency moneda configurada.
func (f *Formatter) Currency() string { return f.currency }
