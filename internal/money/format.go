package money

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale = "es-AR"
	DefaultSymbol = "$"
)

// Formatter renders cents as a currency string using the grouping and
// decimal separators of a locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	symbol  string
}

func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}, nil
}

// Tag is the locale the formatter was built for.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Format returns e.g. "$ 1.250,50" for es-AR or "$ 1,250.50" for en.
func (f *Formatter) Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return sign + f.symbol + " " + f.printer.Sprintf("%.2f", float64(cents)/100.0)
}

// FormatSigned prefixes "+" for income and "-" for expense amounts.
func (f *Formatter) FormatSigned(cents int64, income bool) string {
	if income {
		return "+" + f.Format(cents)
	}

	return "-" + f.Format(cents)
}
