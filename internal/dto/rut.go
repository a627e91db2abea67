package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tiendaropa/internal/rut"
)

// RUT is a request field that accepts a formatted string ("12.345.678-5")
// or a bare numeric body (12345678) and holds the resolved body.
// Strings must carry the correct verifier; numbers are only range checked.
type RUT int

func (r *RUT) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", rut.ErrFormato, err)
	}
	cuerpo, err := rut.Resolver(v)
	if err != nil {
		return err
	}
	*r = RUT(cuerpo)
	return nil
}

// MarshalJSON renders the formatted RUT.
func (r RUT) MarshalJSON() ([]byte, error) {
	return json.Marshal(rut.MustFormatear(int(r)))
}

func (r RUT) Int() int { return int(r) }

// RUTPtr returns nil for a nil field and the body otherwise.
func RUTPtr(r *RUT) *int {
	if r == nil {
		return nil
	}
	v := int(*r)
	return &v
}

type ValidarRUTResponse struct {
	Valido     bool   `json:"valido"`
	Formateado string `json:"formateado,omitempty"`
	Cuerpo     int    `json:"cuerpo,omitempty"`
	DV         string `json:"dv,omitempty"`
}
