package service

import (
	"context"
	"io"
	"os"

	"pagoscompras/internal/dto"
	"pagoscompras/internal/infra"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type DocumentoService interface {
	// Subir guarda el archivo en el storage de expedientes y registra el
	// documento en el expediente de la compra.
	Subir(ctx context.Context, compraID uuid.UUID, filename string, src io.Reader, req dto.SubirDocumentoRequest) (*dto.DocumentoResponse, error)
	Listar(ctx context.Context, compraID uuid.UUID) ([]dto.DocumentoResponse, error)
	// Abrir devuelve el archivo listo para servirse; el caller lo cierra.
	Abrir(ctx context.Context, id uuid.UUID) (*os.File, *model.DocumentoCompra, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type documentoService struct {
	repo       repository.DocumentoRepository
	compraRepo repository.CompraRepository
	storage    *infra.DocStorage
}

func NewDocumentoService(repo repository.DocumentoRepository, compraRepo repository.CompraRepository, storage *infra.DocStorage) DocumentoService {
	return &documentoService{repo: repo, compraRepo: compraRepo, storage: storage}
}

func (s *documentoService) Subir(ctx context.Context, compraID uuid.UUID, filename string, src io.Reader, req dto.SubirDocumentoRequest) (*dto.DocumentoResponse, error) {
	if _, err := s.compraRepo.FindByID(ctx, compraID); err != nil {
		return nil, ErrNoEncontrado
	}

	locator, err := s.storage.Save(filename, src)
	if err != nil {
		return nil, err
	}

	etapa := req.Etapa
	if etapa == "" {
		etapa = model.EtapaDocOtro
	}
	doc := &model.DocumentoCompra{
		CompraID:    compraID,
		Etapa:       etapa,
		Descripcion: req.Descripcion,
		Archivo:     locator,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		// el registro fallo: no dejamos el archivo huerfano
		if rmErr := s.storage.Remove(locator); rmErr != nil {
			log.Warn().Err(rmErr).Str("archivo", locator).Msg("documentos: no se pudo limpiar el archivo")
		}
		return nil, err
	}
	resp := documentoToResponse(doc)
	return &resp, nil
}

func (s *documentoService) Listar(ctx context.Context, compraID uuid.UUID) ([]dto.DocumentoResponse, error) {
	docs, err := s.repo.ListPorCompra(ctx, compraID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DocumentoResponse, len(docs))
	for i := range docs {
		resp[i] = documentoToResponse(&docs[i])
	}
	return resp, nil
}

func (s *documentoService) Abrir(ctx context.Context, id uuid.UUID) (*os.File, *model.DocumentoCompra, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, ErrNoEncontrado
	}
	f, err := s.storage.Open(doc.Archivo)
	if err != nil {
		return nil, nil, ErrNoEncontrado
	}
	return f, doc, nil
}

func (s *documentoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNoEncontrado
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Remove(doc.Archivo); err != nil {
		log.Warn().Err(err).Str("archivo", doc.Archivo).Msg("documentos: no se pudo borrar el archivo")
	}
	return nil
}

func documentoToResponse(d *model.DocumentoCompra) dto.DocumentoResponse {
	return dto.DocumentoResponse{
		ID:          d.ID.String(),
		CompraID:    d.CompraID.String(),
		Etapa:       d.Etapa,
		Descripcion: d.Descripcion,
		Archivo:     d.Archivo,
		CreatedAt:   d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
