package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest accepts a RUT ("12.345.678-5") or an email as identificador.
type LoginRequest struct {
	Identificador string `json:"identificador" validate:"required,min=3"`
	Password      string `json:"password"      validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	RUT      RUT     `json:"rut"      validate:"required"`
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Rol      string  `json:"rol"      validate:"required,oneof=administrador vendedor bodeguero"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string  `json:"nombre"   validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Rol      string  `json:"rol"      validate:"omitempty,oneof=administrador vendedor bodeguero"`
	Password string  `json:"password" validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	RUT    string  `json:"rut"`
	Nombre string  `json:"nombre"`
	Email  *string `json:"email"`
	Rol    string  `json:"rol"`
	Activo bool    `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
