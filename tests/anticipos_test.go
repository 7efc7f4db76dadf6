package tests

import (
	"context"
	"testing"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/model"
	"pagoscompras/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAnticipoSvc(m *memoria) service.AnticipoService {
	return service.NewAnticipoService(&stubAnticipoRepo{m: m}, &stubProductorRepo{m: m})
}

func TestCrearAnticipo_FolioConsecutivo(t *testing.T) {
	m := nuevaMemoria()
	p := seedProductor(m, "PR-01", "Algodonera del Valle")
	svc := buildAnticipoSvc(m)

	primero, err := svc.Crear(context.Background(), dto.CrearAnticipoRequest{
		FechaPago:     "2025-02-01",
		ProductorID:   p.ID.String(),
		MontoAnticipo: dec("10000"),
	})
	require.NoError(t, err)
	segundo, err := svc.Crear(context.Background(), dto.CrearAnticipoRequest{
		FechaPago:     "2025-02-02",
		ProductorID:   p.ID.String(),
		MontoAnticipo: dec("5000"),
	})
	require.NoError(t, err)

	require.NotNil(t, primero.NumeroAnticipo)
	require.NotNil(t, segundo.NumeroAnticipo)
	assert.Equal(t, *primero.NumeroAnticipo+1, *segundo.NumeroAnticipo)
	assert.Equal(t, model.PendienteAplicarPendiente, primero.PendienteAplicar)
	assert.Equal(t, "10000", primero.SaldoDisponible.String())
}

func TestCrearAnticipo_HeredaContactoDelProductor(t *testing.T) {
	m := nuevaMemoria()
	p := seedProductor(m, "PR-01", "Algodonera del Valle")
	svc := buildAnticipoSvc(m)

	resp, err := svc.Crear(context.Background(), dto.CrearAnticipoRequest{
		FechaPago:     "2025-02-01",
		ProductorID:   p.ID.String(),
		MontoAnticipo: dec("10000"),
	})
	require.NoError(t, err)

	guardado := m.anticipos[uuid.MustParse(resp.ID)]
	assert.Equal(t, p.CorreoFacturas, guardado.CorreoParaFacturas)
	assert.Equal(t, p.Telefono, guardado.Telefono)

	// la captura explicita no se pisa
	resp, err = svc.Crear(context.Background(), dto.CrearAnticipoRequest{
		FechaPago:          "2025-02-02",
		ProductorID:        p.ID.String(),
		MontoAnticipo:      dec("5000"),
		CorreoParaFacturas: "otro@correo.mx",
	})
	require.NoError(t, err)
	assert.Equal(t, "otro@correo.mx", m.anticipos[uuid.MustParse(resp.ID)].CorreoParaFacturas)
}

func TestCrearAnticipo_ProductorInexistente(t *testing.T) {
	svc := buildAnticipoSvc(nuevaMemoria())
	_, err := svc.Crear(context.Background(), dto.CrearAnticipoRequest{
		FechaPago:     "2025-02-01",
		ProductorID:   uuid.NewString(),
		MontoAnticipo: dec("10000"),
	})
	assert.ErrorContains(t, err, "productor no encontrado")
}

func TestActualizarAnticipo_MontoRecalculaEstatus(t *testing.T) {
	m := nuevaMemoria()
	p := seedProductor(m, "PR-01", "Algodonera del Valle")
	anticipo := seedAnticipo(m, p, "10000")
	compra := seedCompra(m, p, 101, "15000")

	aplicacionSvc := buildAplicacionSvc(m)
	_, err := aplicacionSvc.Aplicar(context.Background(), dto.AplicarAnticipoRequest{
		AnticipoID:    anticipo.ID.String(),
		CompraID:      compra.ID.String(),
		Fecha:         "2025-03-15",
		MontoAplicado: dec("10000"),
	})
	require.NoError(t, err)
	require.Equal(t, model.PendienteAplicarAplicado, m.anticipos[anticipo.ID].PendienteAplicar)

	// subir el monto del anticipo reabre el estatus derivado
	svc := buildAnticipoSvc(m)
	resp, err := svc.Actualizar(context.Background(), anticipo.ID, dto.ActualizarAnticipoRequest{
		MontoAnticipo: decPtr("12000"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PendienteAplicarPendiente, resp.PendienteAplicar)
	assert.Equal(t, "2000", resp.SaldoDisponible.String())
}

func TestEliminarAnticipo_ConAplicaciones(t *testing.T) {
	m := nuevaMemoria()
	p := seedProductor(m, "PR-01", "Algodonera del Valle")
	anticipo := seedAnticipo(m, p, "10000")
	compra := seedCompra(m, p, 101, "15000")

	aplicacionSvc := buildAplicacionSvc(m)
	_, err := aplicacionSvc.Aplicar(context.Background(), dto.AplicarAnticipoRequest{
		AnticipoID:    anticipo.ID.String(),
		CompraID:      compra.ID.String(),
		Fecha:         "2025-03-15",
		MontoAplicado: dec("1000"),
	})
	require.NoError(t, err)

	svc := buildAnticipoSvc(m)
	err = svc.Eliminar(context.Background(), anticipo.ID)
	assert.ErrorContains(t, err, "ya tiene aplicaciones")
	assert.Contains(t, m.anticipos, anticipo.ID)
}

func TestListarAnticipos_FiltraPorPendiente(t *testing.T) {
	m := nuevaMemoria()
	p := seedProductor(m, "PR-01", "Algodonera del Valle")
	seedAnticipo(m, p, "10000")
	agotado := seedAnticipo(m, p, "5000")
	agotado.PendienteAplicar = model.PendienteAplicarAplicado

	svc := buildAnticipoSvc(m)
	resp, err := svc.Listar(context.Background(), dto.AnticipoFilter{
		PendienteAplicar: model.PendienteAplicarPendiente,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "10000", resp.Data[0].MontoAnticipo.String())
	assert.Equal(t, "Algodonera del Valle", resp.Data[0].ProductorNombre)
}
