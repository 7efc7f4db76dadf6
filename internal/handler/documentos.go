package handler

import (
	"net/http"

	"pagoscompras/internal/apierror"
	"pagoscompras/internal/dto"
	"pagoscompras/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// 25 MB por archivo; los expedientes son PDFs y fotos de comprobantes.
const maxDocumentoBytes = 25 << 20

type DocumentosHandler struct {
	svc service.DocumentoService
}

func NewDocumentosHandler(svc service.DocumentoService) *DocumentosHandler {
	return &DocumentosHandler{svc: svc}
}

// Subir recibe multipart/form-data: el archivo en el campo "archivo" y los
// metadatos (etapa, descripcion) como campos de formulario.
func (h *DocumentosHandler) Subir(c *gin.Context) {
	compraID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubirDocumentoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulario invalido: "+err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return
	}

	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo en el campo 'archivo'"))
		return
	}
	if fh.Size > maxDocumentoBytes {
		c.JSON(http.StatusBadRequest, apierror.New("El archivo excede el tamano maximo permitido"))
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer src.Close()

	resp, err := h.svc.Subir(c.Request.Context(), compraID, fh.Filename, src, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentosHandler) Listar(c *gin.Context) {
	compraID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), compraID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Descargar sirve el archivo original con su nombre de carga.
func (h *DocumentosHandler) Descargar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	f, doc, err := h.svc.Abrir(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.NombreOriginal()+`"`)
	http.ServeContent(c.Writer, c.Request, doc.NombreOriginal(), info.ModTime(), f)
}

func (h *DocumentosHandler) Eliminar(c *gin.Context) {
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
