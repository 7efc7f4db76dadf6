package dto

// SubirDocumentoRequest accompanies a multipart upload; the file itself comes
// in the "archivo" form field.
type SubirDocumentoRequest struct {
	Etapa       string `form:"etapa"       validate:"omitempty,oneof=solicitud_factura factura pago otro"`
	Descripcion string `form:"descripcion" validate:"max=200"`
}

type DocumentoResponse struct {
	ID          string `json:"id"`
	CompraID    string `json:"compra_id"`
	Etapa       string `json:"etapa"`
	Descripcion string `json:"descripcion,omitempty"`
	Archivo     string `json:"archivo"`
	CreatedAt   string `json:"created_at"`
}
