// Package money representa montos como centavos enteros. En JSON y en NUMERIC
// viajan como decimales con dos cifras ("150.50").
package money

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Cents int64

// FromFloat redondea al centavo más cercano.
func FromFloat(v float64) Cents {
	return Cents(math.Round(v * 100))
}

func (c Cents) Float() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Parse lee un decimal ("150", "150.5", "-3.25"). Más de dos decimales o
// notación exponencial se redondean al centavo.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	if strings.ContainsAny(s, "eE") {
		return parseFloat(s)
	}

	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	whole, frac, _ := strings.Cut(body, ".")
	if len(frac) > 2 {
		return parseFloat(s)
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q", s)
	}
	var f int64
	if frac != "" {
		f, err = strconv.ParseInt(frac+strings.Repeat("0", 2-len(frac)), 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("money: invalid amount %q", s)
		}
	}
	v := w*100 + f
	if neg {
		v = -v
	}
	return Cents(v), nil
}

func parseFloat(s string) (Cents, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q", s)
	}
	return FromFloat(f), nil
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Value escribe el monto como texto decimal para columnas NUMERIC.
func (c Cents) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *Cents) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = 0
		return nil
	case string:
		p, err := Parse(v)
		if err != nil {
			return err
		}
		*c = p
	case []byte:
		p, err := Parse(string(v))
		if err != nil {
			return err
		}
		*c = p
	case int64:
		*c = Cents(v * 100)
	case float64:
		*c = FromFloat(v)
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}
