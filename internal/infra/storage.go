package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocStorage guarda los archivos del expediente de cada compra en disco,
// bajo root/compras/YYYY/MM/. El locator que devuelve (ruta relativa al
// root) es lo que se persiste en documentos_compra.archivo.
type DocStorage struct {
	root string
}

func NewDocStorage(root string) (*DocStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio raiz: %w", err)
	}
	return &DocStorage{root: root}, nil
}

// Save escribe el contenido y devuelve el locator relativo. El nombre en
// disco lleva un uuid como prefijo para evitar colisiones entre archivos
// con el mismo nombre original.
func (s *DocStorage) Save(filename string, src io.Reader) (string, error) {
	now := time.Now()
	rel := filepath.Join("compras", now.Format("2006"), now.Format("01"))
	dir := filepath.Join(s.root, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}

	name := uuid.NewString() + "_" + sanitize(filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	return filepath.Join(rel, name), nil
}

// Open abre el archivo referido por un locator previamente devuelto por Save.
func (s *DocStorage) Open(locator string) (*os.File, error) {
	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove borra el archivo del disco. Ignora el caso ya-no-existe.
func (s *DocStorage) Remove(locator string) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Root expone el directorio raiz (lo usa el generador de PDFs).
func (s *DocStorage) Root() string { return s.root }

// resolve valida que el locator no escape del root.
func (s *DocStorage) resolve(locator string) (string, error) {
	path := filepath.Join(s.root, filepath.Clean("/"+locator))
	if !strings.HasPrefix(path, s.root) {
		return "", fmt.Errorf("storage: locator invalido %q", locator)
	}
	return path, nil
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
