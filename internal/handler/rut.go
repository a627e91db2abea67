package handler

import (
	"net/http"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/rut"

	"github.com/gin-gonic/gin"
)

// ValidarRUT godoc
// @Summary      Validar RUT
// @Description  Verifica formato y digito verificador. Siempre responde 200 salvo que falte el parametro.
// @Tags         rut
// @Produce      json
// @Param        rut query string true "RUT a validar, con o sin puntos"
// @Success      200 {object} dto.ValidarRUTResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/rut/validar [get]
func ValidarRUT(c *gin.Context) {
	input := c.Query("rut")
	if input == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro rut requerido"))
		return
	}
	resp := dto.ValidarRUTResponse{Valido: rut.Validar(input)}
	if resp.Valido {
		p, _ := rut.Parse(input)
		resp.Formateado, _ = rut.Formatear(p.Cuerpo)
		resp.Cuerpo = p.Cuerpo
		resp.DV = string(p.DV)
	}
	c.JSON(http.StatusOK, resp)
}
