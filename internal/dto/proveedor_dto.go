package dto

type CrearProveedorRequest struct {
	RUT         RUT     `json:"rut"          validate:"required"`
	RazonSocial string  `json:"razon_social" validate:"required,min=2,max=150"`
	Giro        *string `json:"giro"         validate:"omitempty,max=150"`
	Telefono    *string `json:"telefono"     validate:"omitempty,max=20"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"    validate:"omitempty,max=200"`
}

type ActualizarProveedorRequest struct {
	RazonSocial *string `json:"razon_social" validate:"omitempty,min=2,max=150"`
	Giro        *string `json:"giro"         validate:"omitempty,max=150"`
	Telefono    *string `json:"telefono"     validate:"omitempty,max=20"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"    validate:"omitempty,max=200"`
}

type ProveedorResponse struct {
	RUT         string  `json:"rut"`
	RazonSocial string  `json:"razon_social"`
	Giro        *string `json:"giro"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"`
	Direccion   *string `json:"direccion"`
	Activo      bool    `json:"activo"`
}
