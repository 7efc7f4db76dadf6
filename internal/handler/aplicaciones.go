package handler

import (
	"net/http"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/service"

	"github.com/gin-gonic/gin"
)

type AplicacionesHandler struct {
	svc service.AplicacionService
}

func NewAplicacionesHandler(svc service.AplicacionService) *AplicacionesHandler {
	return &AplicacionesHandler{svc: svc}
}

func (h *AplicacionesHandler) Aplicar(c *gin.Context) {
	var req dto.AplicarAnticipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Aplicar(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AplicacionesHandler) Obtener(c *gin.Context) {
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

func (h *AplicacionesHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarAplicacionRequest
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

func (h *AplicacionesHandler) Eliminar(c *gin.Context) {
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
