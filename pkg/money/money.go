// Package money renders prices in the store's currency.
package money

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Formatter struct {
	unit currency.Unit
	tag  language.Tag
}

func NewFormatter(code, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	return &Formatter{unit: unit, tag: tag}, nil
}

// Format uses the currency's standard number of decimals, e.g. none for XAF.
func (f *Formatter) Format(amount float64) string {
	return message.NewPrinter(f.tag).Sprint(currency.Symbol(f.unit.Amount(amount)))
}

func (f *Formatter) Currency() string {
	return f.unit.String()
}
