package dto

type CrearClienteRequest struct {
	RUT       RUT     `json:"rut"       validate:"required"`
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=120"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=20"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

type ActualizarClienteRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=120"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=20"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

type ClienteFilter struct {
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ClienteResponse struct {
	RUT       string  `json:"rut"`
	Nombre    string  `json:"nombre"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
