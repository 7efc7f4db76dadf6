package handler

import (
	"net/http"

	"pagoscompras/internal/apierror"
	"pagoscompras/internal/dto"
	"pagoscompras/internal/service"

	"github.com/gin-gonic/gin"
)

type TipoCambioHandler struct{ svc service.TipoCambioService }

func NewTipoCambioHandler(svc service.TipoCambioService) *TipoCambioHandler {
	return &TipoCambioHandler{svc: svc}
}

func (h *TipoCambioHandler) Crear(c *gin.Context) {
	var req dto.CrearTipoCambioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TipoCambioHandler) Listar(c *gin.Context) {
	var filter dto.TipoCambioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TipoCambioHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TipoCambioHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarTipoCambioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sincronizar dispara la sincronizacion con Banxico en linea y devuelve el
// conteo de filas creadas y actualizadas.
func (h *TipoCambioHandler) Sincronizar(c *gin.Context) {
	var req dto.SyncTipoCambioRequest
	// el cuerpo es opcional: sin body se usa la ventana configurada
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Sincronizar(c.Request.Context(), req.Days)
	if err != nil {
		if service.EsValidacion(err) {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New("No se pudo sincronizar con Banxico: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
