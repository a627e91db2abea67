// Package rut implements the Chilean RUT (Rol Único Tributario) check digit,
// parsing, validation and formatting rules. Every entity keyed by a RUT
// (clientes, proveedores, usuarios) goes through Resolver at the API boundary.
package rut

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	MinCuerpo = 1
	MaxCuerpo = 99_999_999
)

var (
	// ErrFormato is returned for malformed RUT strings.
	ErrFormato = errors.New("formato de RUT invalido")
	// ErrFueraDeRango is returned when the numeric body is outside 1..99.999.999.
	ErrFueraDeRango = errors.New("RUT fuera de rango")
	// ErrDigitoVerificador is returned when the verifier does not match the body.
	ErrDigitoVerificador = errors.New("digito verificador invalido")
)

// Parsed is a RUT split into its numeric body and verifier character.
type Parsed struct {
	Cuerpo int
	DV     byte
}

// CalcularDV computes the modulo-11 verifier for body. The digits are walked
// from least to most significant with the weights 2,3,4,5,6,7 repeating.
func CalcularDV(cuerpo int) (byte, error) {
	if cuerpo < MinCuerpo || cuerpo > MaxCuerpo {
		return 0, fmt.Errorf("%w: %d", ErrFueraDeRango, cuerpo)
	}
	suma := 0
	peso := 2
	for n := cuerpo; n > 0; n /= 10 {
		suma += (n % 10) * peso
		peso++
		if peso > 7 {
			peso = 2
		}
	}
	switch dv := 11 - suma%11; dv {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + dv), nil
	}
}

// Parse strips whitespace, dots and dashes and splits the remaining text into
// body and verifier. It does not check the verifier against the body.
func Parse(input string) (Parsed, error) {
	limpio := limpiar(input)
	if len(limpio) < 2 {
		return Parsed{}, fmt.Errorf("%w: se requieren al menos 2 caracteres", ErrFormato)
	}

	cuerpoStr := limpio[:len(limpio)-1]
	dv := limpio[len(limpio)-1]
	if dv >= 'a' && dv <= 'z' {
		dv -= 'a' - 'A'
	}
	if !(dv >= '0' && dv <= '9') && dv != 'K' {
		return Parsed{}, fmt.Errorf("%w: digito verificador %q no permitido", ErrFormato, dv)
	}
	for i := 0; i < len(cuerpoStr); i++ {
		if cuerpoStr[i] < '0' || cuerpoStr[i] > '9' {
			return Parsed{}, fmt.Errorf("%w: el cuerpo debe ser numerico", ErrFormato)
		}
	}
	// len > 9 would overflow the range anyway; avoid Atoi overflow on huge inputs.
	if len(strings.TrimLeft(cuerpoStr, "0")) > 9 {
		return Parsed{}, fmt.Errorf("%w: cuerpo fuera de rango", ErrFormato)
	}
	cuerpo, err := strconv.Atoi(cuerpoStr)
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrFormato, err)
	}
	if cuerpo < MinCuerpo || cuerpo > MaxCuerpo {
		return Parsed{}, fmt.Errorf("%w: cuerpo fuera de rango", ErrFormato)
	}
	return Parsed{Cuerpo: cuerpo, DV: dv}, nil
}

// Validar reports whether input is a well formed RUT with a correct verifier.
func Validar(input string) bool {
	p, err := Parse(input)
	if err != nil {
		return false
	}
	esperado, err := CalcularDV(p.Cuerpo)
	if err != nil {
		return false
	}
	return esperado == p.DV
}

// Formatear renders body as "12.345.678-5".
func Formatear(cuerpo int) (string, error) {
	dv, err := CalcularDV(cuerpo)
	if err != nil {
		return "", err
	}
	digitos := strconv.Itoa(cuerpo)
	var b strings.Builder
	for i, r := range digitos {
		if i > 0 && (len(digitos)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte('-')
	b.WriteByte(dv)
	return b.String(), nil
}

// MustFormatear is Formatear for bodies already known to be in range.
// Out-of-range bodies are rendered as plain digits.
func MustFormatear(cuerpo int) string {
	s, err := Formatear(cuerpo)
	if err != nil {
		return strconv.Itoa(cuerpo)
	}
	return s
}

// Resolver turns an API-supplied RUT into its numeric body.
//
// Strings must be well formed and carry the correct verifier. Numbers are only
// range checked: a numeric RUT is taken to be a body that was verified
// upstream.
func Resolver(v any) (int, error) {
	switch t := v.(type) {
	case string:
		p, err := Parse(t)
		if err != nil {
			return 0, err
		}
		esperado, _ := CalcularDV(p.Cuerpo)
		if esperado != p.DV {
			return 0, fmt.Errorf("%w: esperado %c", ErrDigitoVerificador, esperado)
		}
		return p.Cuerpo, nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrFormato, err)
		}
		return rango(n)
	case int:
		return rango(int64(t))
	case int32:
		return rango(int64(t))
	case int64:
		return rango(t)
	case uint:
		return rango(int64(t))
	case uint32:
		return rango(int64(t))
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d", ErrFueraDeRango, t)
		}
		return rango(int64(t))
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, fmt.Errorf("%w: el RUT numerico debe ser entero", ErrFormato)
		}
		if t < MinCuerpo || t > MaxCuerpo {
			return 0, fmt.Errorf("%w: %v", ErrFueraDeRango, t)
		}
		return int(t), nil
	case nil:
		return 0, fmt.Errorf("%w: RUT requerido", ErrFormato)
	default:
		return 0, fmt.Errorf("%w: tipo %T no soportado", ErrFormato, v)
	}
}

func rango(n int64) (int, error) {
	if n < MinCuerpo || n > MaxCuerpo {
		return 0, fmt.Errorf("%w: %d", ErrFueraDeRango, n)
	}
	return int(n), nil
}

func limpiar(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '.' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
