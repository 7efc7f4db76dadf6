package infra

// solicitud_pdf.go — Hoja de solicitud de factura con go-pdf/fpdf.
// Genera una carta A4 con los datos fiscales de la compra para que el
// productor (o su contador) emita la factura correspondiente:
//   - Encabezado con numero de compra y fecha de liquidacion
//   - Datos del productor y regimen fiscal
//   - Desglose del importe, moneda y tipo de cambio aplicado
//   - Cuenta y correo a donde enviar la factura
//
// El archivo queda en el storage de documentos y se registra en el
// expediente de la compra con etapa "solicitud_factura".

import (
	"bytes"
	"fmt"
	"time"

	"pagoscompras/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMonto imprime un importe con separadores de miles al estilo
// es-MX: $1.234.567,89 → formato del printer de language.Spanish.
func FormatMonto(monto decimal.Decimal) string {
	p := message.NewPrinter(language.Spanish)
	f, _ := monto.Round(2).Float64()
	return p.Sprintf("$%.2f", f)
}

// FormatCantidad agrupa miles sin signo de moneda (pacas, libras).
func FormatCantidad(cantidad decimal.Decimal) string {
	p := message.NewPrinter(language.Spanish)
	f, _ := cantidad.Round(2).Float64()
	return p.Sprintf("%.2f", f)
}

// GenerarSolicitudPDF arma la hoja de solicitud y la guarda en el storage.
// Devuelve el locator del archivo generado.
func GenerarSolicitudPDF(c *model.Compra, storage *DocStorage) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	// ── Encabezado ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Solicitud de Factura", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Compra No. %d", c.NumeroCompra), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, "Fecha de liquidacion: "+c.FechaLiq.Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(20, pdf.GetY(), pageW-20, pdf.GetY())
	pdf.Ln(4)

	// ── Datos del productor ──────────────────────────────────────────────────
	labelW := contentW * 0.38
	valueW := contentW * 0.62

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelW, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(valueW, 7, value, "", 1, "L", false, 0, "")
	}

	if c.Productor != nil {
		row("Productor:", c.Productor.Nombre)
		row("Codigo:", c.Productor.Codigo)
	}
	row("Regimen fiscal:", c.RegimenFiscal)
	pdf.Ln(3)

	// ── Importe ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Importe a facturar", "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	if c.Pago != nil {
		row("Pago:", FormatMonto(*c.Pago)+" "+c.Moneda)
	}
	if !c.TotalEnPesos.IsZero() {
		row("Total en pesos:", FormatMonto(c.TotalEnPesos)+" MXN")
	}
	if c.TipoCambioValor != nil {
		row("Tipo de cambio:", c.TipoCambioValor.StringFixed(4))
	}
	if c.Pacas != nil {
		row("Pacas:", c.Pacas.StringFixed(2))
	}
	if c.CompraEnLibras != nil {
		row("Libras:", c.CompraEnLibras.StringFixed(2))
	}
	pdf.Ln(3)

	// ── Datos de envio ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Envio de la factura", "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	if c.Correo != "" {
		row("Correo:", c.Correo)
	}
	if c.CuentaProductor != "" {
		row("Cuenta:", c.CuentaProductor)
	}
	if c.MetodoDePago != "" {
		row("Metodo de pago:", c.MetodoDePago)
	}

	// ── Pie ──────────────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Generado el "+time.Now().Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("pdf: generar solicitud: %w", err)
	}
	return storage.Save(fmt.Sprintf("solicitud_factura_%d.pdf", c.NumeroCompra), &buf)
}
