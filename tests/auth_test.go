package tests

import (
	"context"
	"sort"
	"testing"

	"pagoscompras/internal/config"
	"pagoscompras/internal/dto"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"
	"pagoscompras/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Usuario repo stub ────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func nuevoStubUsuarios() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *u
	return &copia, nil
}

// FindByUsername solo regresa cuentas activas, igual que el repo real.
func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			copia := *u
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		if !incluirInactivos && !u.Activo {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = activo
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func seedUsuario(r *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Nombre:       "Usuario " + username,
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	r.usuarios[u.ID] = u
	return u
}

func buildAuthSvc(r *stubUsuarioRepo) service.AuthService {
	cfg := &config.Config{
		JWTSecret:          "secreto-de-pruebas",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(r, cfg)
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestLogin_OK(t *testing.T) {
	repo := nuevoStubUsuarios()
	seedUsuario(repo, "conta", "clave123", "contador")
	svc := buildAuthSvc(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "conta", Password: "clave123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "conta", resp.User.Username)
	assert.Equal(t, "contador", resp.User.Rol)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := nuevoStubUsuarios()
	seedUsuario(repo, "conta", "clave123", "contador")
	svc := buildAuthSvc(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "conta", Password: "otra"})
	require.Error(t, err)
	assert.True(t, service.EsValidacion(err))
	assert.Contains(t, err.Error(), "credenciales invalidas")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := nuevoStubUsuarios()
	u := seedUsuario(repo, "baja", "clave123", "capturista")
	u.Activo = false
	svc := buildAuthSvc(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "baja", Password: "clave123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales invalidas")
}

func TestRefresh_OK(t *testing.T) {
	repo := nuevoStubUsuarios()
	seedUsuario(repo, "admin", "clave123", "administrador")
	svc := buildAuthSvc(repo)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "clave123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "admin", resp.User.Username)
}

// Un refresh emitido antes de la baja deja de servir en cuanto la cuenta
// se desactiva.
func TestRefresh_UsuarioDesactivado(t *testing.T) {
	repo := nuevoStubUsuarios()
	u := seedUsuario(repo, "admin", "clave123", "administrador")
	svc := buildAuthSvc(repo)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "clave123"})
	require.NoError(t, err)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactivo")
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc := buildAuthSvc(nuevoStubUsuarios())

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
	assert.True(t, service.EsValidacion(err))
}

func TestCrearUsuario_HasheaPassword(t *testing.T) {
	repo := nuevoStubUsuarios()
	svc := buildAuthSvc(repo)

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "captura1",
		Password: "clave123",
		Nombre:   "Capturista Uno",
		Rol:      "capturista",
	})
	require.NoError(t, err)
	assert.True(t, resp.Activo)

	guardado, err := repo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.NotEqual(t, "clave123", guardado.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(guardado.PasswordHash), []byte("clave123")))
}

func TestActualizarUsuario_CambiaRolYPassword(t *testing.T) {
	repo := nuevoStubUsuarios()
	u := seedUsuario(repo, "captura1", "clave123", "capturista")
	svc := buildAuthSvc(repo)

	rol := "contador"
	pass := "nueva456"
	resp, err := svc.ActualizarUsuario(context.Background(), u.ID, dto.ActualizarUsuarioRequest{
		Rol:      &rol,
		Password: &pass,
	})
	require.NoError(t, err)
	assert.Equal(t, "contador", resp.Rol)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "captura1", Password: "nueva456"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "captura1", Password: "clave123"})
	assert.Error(t, err)
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	repo := nuevoStubUsuarios()
	u := seedUsuario(repo, "captura1", "clave123", "capturista")
	svc := buildAuthSvc(repo)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))
	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	require.NoError(t, svc.ReactivarUsuario(context.Background(), u.ID))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "captura1", Password: "clave123"})
	assert.NoError(t, err)
}
