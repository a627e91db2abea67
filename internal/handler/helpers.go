package handler

import (
	"errors"
	"net/http"
	"reflect"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/middleware"
	"tiendaropa/internal/rut"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// rut: string fields holding a RUT with its verifier ("12.345.678-5").
	_ = validate.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return rut.Validar(fl.Field().String())
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if esErrorRUT(err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindOptional is bindAndValidate for endpoints whose body may be empty.
func bindOptional(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return validar(c, req)
	}
	return bindAndValidate(c, req)
}

// bindQuery binds query parameters and validates them.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "rut" {
			c.JSON(http.StatusBadRequest, apierror.New(fe.Field()+": "+rut.ErrFormato.Error()))
			return false
		}
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// parseID reads a uuid path parameter, writing 400 when malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// parseRUT resolves a RUT path parameter to its body. The verifier is
// always required in paths.
func parseRUT(c *gin.Context, name string) (int, bool) {
	cuerpo, err := rut.Resolver(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return 0, false
	}
	return cuerpo, true
}

// usuarioRUT returns the RUT of the authenticated user.
func usuarioRUT(c *gin.Context) int {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.RUT
	}
	return 0
}

func esErrorRUT(err error) bool {
	return errors.Is(err, rut.ErrFormato) ||
		errors.Is(err, rut.ErrFueraDeRango) ||
		errors.Is(err, rut.ErrDigitoVerificador)
}

// respondError maps service errors to HTTP responses. Unknown errors are
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var rev *service.ReversionError
	switch {
	case errors.As(err, &rev):
		c.JSON(http.StatusConflict, apierror.NewConflict(rev.Code, rev.Error(), rev.Detalles))
	case errors.Is(err, service.ErrYaAnulada):
		c.JSON(http.StatusConflict, apierror.NewConflict(service.CodigoYaAnulada, err.Error(), nil))
	case errors.Is(err, service.ErrStockInsuficiente):
		c.JSON(http.StatusConflict, apierror.NewConflict(service.CodigoStockInsuficiente, err.Error(), nil))
	case esErrorRUT(err), errors.Is(err, service.ErrDatosInvalidos):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredenciales):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrDuplicado),
		errors.Is(err, service.ErrEnUso),
		errors.Is(err, service.ErrInactivo):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("unexpected service error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
