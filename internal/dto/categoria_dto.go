package dto

type CrearCategoriaRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=80"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=250"`
}

type ActualizarCategoriaRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=2,max=80"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=250"`
	Activo      *bool   `json:"activo"`
}

type CategoriaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}

type CrearTallaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=1,max=20"`
	Orden  int    `json:"orden"  validate:"min=0"`
}

type TallaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Orden  int    `json:"orden"`
}
