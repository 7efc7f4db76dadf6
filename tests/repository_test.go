package tests

import (
	"context"
	"testing"

	"pagoscompras/internal/infra"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Las pruebas de repositorio corren contra sqlite en memoria con el mismo
// AutoMigrate de produccion; los parches DDL de postgres se omiten solos.
func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func insertaProductor(t *testing.T, db *gorm.DB, codigo string) *model.Productor {
	t.Helper()
	p := &model.Productor{
		Codigo: codigo,
		Nombre: "Productor " + codigo,
		Activo: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func insertaAnticipo(t *testing.T, db *gorm.DB, p *model.Productor, numero int, monto string) *model.Anticipo {
	t.Helper()
	a := &model.Anticipo{
		NumeroAnticipo: &numero,
		FechaPago:      fecha("2025-02-01"),
		ProductorID:    p.ID,
		MontoAnticipo:  dec(monto),
		Moneda:         model.MonedaDolares,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func insertaCompra(t *testing.T, db *gorm.DB, p *model.Productor, numero int) *model.Compra {
	t.Helper()
	c := &model.Compra{
		NumeroCompra: numero,
		FechaLiq:     fecha("2025-03-10"),
		ProductorID:  p.ID,
		Pago:         decPtr("15000"),
		Moneda:       model.MonedaDolares,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestAnticipoRepo_NextNumero(t *testing.T) {
	db := abrirDB(t)
	repo := repository.NewAnticipoRepository(db)

	n, err := repo.NextNumero(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p := insertaProductor(t, db, "P-001")
	insertaAnticipo(t, db, p, 7, "10000")

	n, err = repo.NextNumero(db)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestAnticipoRepo_TotalAplicado(t *testing.T) {
	db := abrirDB(t)
	repo := repository.NewAnticipoRepository(db)

	p := insertaProductor(t, db, "P-001")
	a := insertaAnticipo(t, db, p, 1, "10000")
	c := insertaCompra(t, db, p, 1)

	total, err := repo.TotalAplicado(db, a.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	require.NoError(t, db.Create(&model.AplicacionAnticipo{
		AnticipoID: a.ID, CompraID: c.ID, Fecha: fecha("2025-03-11"), MontoAplicado: dec("1000"),
	}).Error)
	require.NoError(t, db.Create(&model.AplicacionAnticipo{
		AnticipoID: a.ID, CompraID: c.ID, Fecha: fecha("2025-03-12"), MontoAplicado: dec("2500"),
	}).Error)

	total, err = repo.TotalAplicado(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "3500", total.String())
}

// La tripleta (anticipo, compra, fecha) esta protegida por indice unico desde
// el esquema, no solo por la validacion del servicio.
func TestAplicacionRepo_TripleUnico(t *testing.T) {
	db := abrirDB(t)
	repo := repository.NewAplicacionRepository(db)

	p := insertaProductor(t, db, "P-001")
	a := insertaAnticipo(t, db, p, 1, "10000")
	c := insertaCompra(t, db, p, 1)

	primera := &model.AplicacionAnticipo{
		AnticipoID: a.ID, CompraID: c.ID, Fecha: fecha("2025-03-11"), MontoAplicado: dec("1000"),
	}
	require.NoError(t, repo.Create(db, primera))

	duplicada := &model.AplicacionAnticipo{
		AnticipoID: a.ID, CompraID: c.ID, Fecha: fecha("2025-03-11"), MontoAplicado: dec("500"),
	}
	assert.Error(t, repo.Create(db, duplicada))

	// otra fecha si pasa
	otra := &model.AplicacionAnticipo{
		AnticipoID: a.ID, CompraID: c.ID, Fecha: fecha("2025-03-12"), MontoAplicado: dec("500"),
	}
	assert.NoError(t, repo.Create(db, otra))
}

func TestCompraRepo_Divisiones(t *testing.T) {
	db := abrirDB(t)
	repo := repository.NewCompraRepository(db)

	p := insertaProductor(t, db, "P-001")
	padre := insertaCompra(t, db, p, 1)

	for i, pct := range []string{"30", "20"} {
		hija := &model.Compra{
			NumeroCompra:       padre.NumeroCompra,
			FechaLiq:           padre.FechaLiq,
			ProductorID:        p.ID,
			ParentCompraID:     &padre.ID,
			PorcentajeDivision: decPtr(pct),
			Moneda:             model.MonedaDolares,
		}
		require.NoError(t, db.Create(hija).Error, "division %d", i)
	}

	total, err := repo.TotalPorcentajeDividido(db, padre.ID)
	require.NoError(t, err)
	assert.Equal(t, "50", total.String())

	hijas, err := repo.ListDivisiones(context.Background(), padre.ID)
	require.NoError(t, err)
	assert.Len(t, hijas, 2)

	cargada, err := repo.FindByID(context.Background(), padre.ID)
	require.NoError(t, err)
	assert.Len(t, cargada.Divisiones, 2)
	require.NotNil(t, cargada.Productor)
	assert.Equal(t, "P-001", cargada.Productor.Codigo)
}

func TestProductorRepo_TieneMovimientos(t *testing.T) {
	db := abrirDB(t)
	repo := repository.NewProductorRepository(db)

	p := insertaProductor(t, db, "P-001")

	tiene, err := repo.TieneMovimientos(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, tiene)

	insertaCompra(t, db, p, 1)

	tiene, err = repo.TieneMovimientos(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, tiene)
}

func TestProductorRepo_CodigoUnico(t *testing.T) {
	db := abrirDB(t)
	insertaProductor(t, db, "P-001")

	dup := &model.Productor{Codigo: "P-001", Nombre: "Otro", Activo: true}
	assert.Error(t, db.Create(dup).Error)
}

func TestUsuarioRepo_FindByUsernameSoloActivos(t *testing.T) {
	db := abrirDB(t)
	repo := repository.NewUsuarioRepository(db)

	u := &model.Usuario{Username: "conta", Nombre: "Contador", PasswordHash: "x", Rol: "contador", Activo: true}
	require.NoError(t, repo.Create(context.Background(), u))

	encontrado, err := repo.FindByUsername(context.Background(), "conta")
	require.NoError(t, err)
	assert.Equal(t, u.ID, encontrado.ID)

	require.NoError(t, repo.SetActivo(context.Background(), u.ID, false))

	_, err = repo.FindByUsername(context.Background(), "conta")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTipoCambioRepo_Ultimo(t *testing.T) {
	db := abrirDB(t)
	repo := repository.NewTipoCambioRepository(db)

	require.NoError(t, repo.Create(context.Background(), &model.TipoCambio{Fecha: fecha("2025-03-10"), TC: dec("18.10"), Fuente: "x"}))
	require.NoError(t, repo.Create(context.Background(), &model.TipoCambio{Fecha: fecha("2025-03-12"), TC: dec("18.30"), Fuente: "x"}))
	require.NoError(t, repo.Create(context.Background(), &model.TipoCambio{Fecha: fecha("2025-03-11"), TC: dec("18.20"), Fuente: "x"}))

	ultimo, err := repo.Ultimo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "18.3", ultimo.TC.String())
	assert.True(t, ultimo.Fecha.Equal(fecha("2025-03-12")))
}
