package handler

import (
	"net/http"

	"pagoscompras/internal/apierror"
	"pagoscompras/internal/dto"
	"pagoscompras/internal/flujo"
	"pagoscompras/internal/service"

	"github.com/gin-gonic/gin"
)

type ComprasHandler struct {
	svc           service.CompraService
	aplicacionSvc service.AplicacionService
}

func NewComprasHandler(svc service.CompraService, aplicacionSvc service.AplicacionService) *ComprasHandler {
	return &ComprasHandler{svc: svc, aplicacionSvc: aplicacionSvc}
}

func (h *ComprasHandler) Crear(c *gin.Context) {
	var req dto.CrearCompraRequest
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

func (h *ComprasHandler) Listar(c *gin.Context) {
	var filter dto.CompraFilter
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

func (h *ComprasHandler) Obtener(c *gin.Context) {
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

func (h *ComprasHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCompraRequest
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

// ActualizarEtapa edits one workflow stage; locked stages come back as 409.
func (h *ComprasHandler) ActualizarEtapa(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	etapa := flujo.Etapa(c.Param("etapa"))
	switch etapa {
	case flujo.EtapaCaptura, flujo.EtapaAnticipos, flujo.EtapaDeudas,
		flujo.EtapaFacturas, flujo.EtapaPago:
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Etapa desconocida"))
		return
	}
	var req dto.ActualizarEtapaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEtapa(c.Request.Context(), id, etapa, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComprasHandler) Eliminar(c *gin.Context) {
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

// ── divisiones ───────────────────────────────────────────────────────────────

func (h *ComprasHandler) CrearDivision(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CrearDivisionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearDivision(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComprasHandler) DivisionDisponible(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.DivisionDisponible(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── solicitud de factura ─────────────────────────────────────────────────────

func (h *ComprasHandler) SolicitarFactura(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.SolicitarFactura(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// ── aplicaciones de la compra ────────────────────────────────────────────────

func (h *ComprasHandler) ListarAplicaciones(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.aplicacionSvc.ListarPorCompra(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
