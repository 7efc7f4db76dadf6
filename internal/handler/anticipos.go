package handler

import (
	"net/http"

	"pagoscompras/internal/apierror"
	"pagoscompras/internal/dto"
	"pagoscompras/internal/service"

	"github.com/gin-gonic/gin"
)

type AnticiposHandler struct {
	svc            service.AnticipoService
	aplicacionSvc  service.AplicacionService
}

func NewAnticiposHandler(svc service.AnticipoService, aplicacionSvc service.AplicacionService) *AnticiposHandler {
	return &AnticiposHandler{svc: svc, aplicacionSvc: aplicacionSvc}
}

func (h *AnticiposHandler) Crear(c *gin.Context) {
	var req dto.CrearAnticipoRequest
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

func (h *AnticiposHandler) Listar(c *gin.Context) {
	var filter dto.AnticipoFilter
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

func (h *AnticiposHandler) Obtener(c *gin.Context) {
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

func (h *AnticiposHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarAnticipoRequest
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

func (h *AnticiposHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarAplicaciones shows every application drawn from one anticipo.
func (h *AnticiposHandler) ListarAplicaciones(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.aplicacionSvc.ListarPorAnticipo(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
