package router

import (
	"time"

	"pagoscompras/internal/config"
	"pagoscompras/internal/handler"
	"pagoscompras/internal/infra"
	"pagoscompras/internal/middleware"
	"pagoscompras/internal/repository"
	"pagoscompras/internal/service"
	"pagoscompras/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps holds the shared infrastructure the engine and the worker pool both use.
type Deps struct {
	Banxico *infra.BanxicoClient
	Storage *infra.DocStorage
}

// New wires all dependencies and returns a configured Gin engine plus the
// worker handlers so main can start the pool with the same instances.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) (*gin.Engine, worker.Handlers) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productorRepo := repository.NewProductorRepository(db)
	tcRepo := repository.NewTipoCambioRepository(db)
	anticipoRepo := repository.NewAnticipoRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	aplicacionRepo := repository.NewAplicacionRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productorSvc := service.NewProductorService(productorRepo)
	tcSvc := service.NewTipoCambioService(tcRepo, deps.Banxico, rdb, cfg)
	anticipoSvc := service.NewAnticipoService(anticipoRepo, productorRepo)
	compraSvc := service.NewCompraService(compraRepo, productorRepo, tcRepo, dispatcher)
	aplicacionSvc := service.NewAplicacionService(aplicacionRepo, anticipoRepo, compraRepo)
	documentoSvc := service.NewDocumentoService(documentoRepo, compraRepo, deps.Storage)
	dashboardSvc := service.NewDashboardService(productorRepo, anticipoRepo, compraRepo, tcRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productoresH := handler.NewProductoresHandler(productorSvc)
	tcH := handler.NewTipoCambioHandler(tcSvc)
	anticiposH := handler.NewAnticiposHandler(anticipoSvc, aplicacionSvc)
	comprasH := handler.NewComprasHandler(compraSvc, aplicacionSvc)
	aplicacionesH := handler.NewAplicacionesHandler(aplicacionSvc)
	documentosH := handler.NewDocumentosHandler(documentoSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, deps.Banxico))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole(middleware.RolCapturista, middleware.RolContador, middleware.RolAdministrador)
	finanzas := middleware.RequireRole(middleware.RolContador, middleware.RolAdministrador)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/dashboard", todos, dashboardH.Resumen)

		prods := v1.Group("/productores")
		{
			prods.GET("", todos, productoresH.Listar)
			prods.GET("/:id", todos, productoresH.Obtener)
			prods.POST("", todos, productoresH.Crear)
			prods.PUT("/:id", todos, productoresH.Actualizar)
			prods.DELETE("/:id", finanzas, productoresH.Eliminar)
		}

		tc := v1.Group("/tipos-cambio")
		{
			tc.GET("", todos, tcH.Listar)
			tc.GET("/:id", todos, tcH.Obtener)
			tc.POST("", finanzas, tcH.Crear)
			tc.PUT("/:id", finanzas, tcH.Actualizar)
			tc.POST("/sincronizar", finanzas, tcH.Sincronizar)
		}

		ant := v1.Group("/anticipos")
		{
			ant.GET("", todos, anticiposH.Listar)
			ant.GET("/:id", todos, anticiposH.Obtener)
			ant.GET("/:id/aplicaciones", todos, anticiposH.ListarAplicaciones)
			ant.POST("", todos, anticiposH.Crear)
			ant.PUT("/:id", todos, anticiposH.Actualizar)
			ant.DELETE("/:id", finanzas, anticiposH.Eliminar)
		}

		compras := v1.Group("/compras")
		{
			compras.GET("", todos, comprasH.Listar)
			compras.GET("/:id", todos, comprasH.Obtener)
			compras.POST("", todos, comprasH.Crear)
			compras.PUT("/:id", todos, comprasH.Actualizar)
			compras.DELETE("/:id", finanzas, comprasH.Eliminar)

			// Edicion por etapa del flujo de trabajo
			compras.PATCH("/:id/etapas/:etapa", todos, comprasH.ActualizarEtapa)

			compras.GET("/:id/division-disponible", todos, comprasH.DivisionDisponible)
			compras.POST("/:id/divisiones", finanzas, comprasH.CrearDivision)
			compras.POST("/:id/solicitud-factura", todos, comprasH.SolicitarFactura)
			compras.GET("/:id/aplicaciones", todos, comprasH.ListarAplicaciones)

			// Expediente documental
			compras.GET("/:id/documentos", todos, documentosH.Listar)
			compras.POST("/:id/documentos", todos, documentosH.Subir)
		}

		apls := v1.Group("/aplicaciones")
		{
			apls.POST("", todos, aplicacionesH.Aplicar)
			apls.GET("/:id", todos, aplicacionesH.Obtener)
			apls.PUT("/:id", todos, aplicacionesH.Actualizar)
			apls.DELETE("/:id", finanzas, aplicacionesH.Eliminar)
		}

		docs := v1.Group("/documentos")
		{
			docs.GET("/:id/descargar", todos, documentosH.Descargar)
			docs.DELETE("/:id", finanzas, documentosH.Eliminar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(middleware.RolAdministrador))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := worker.Handlers{
		Solicitud: worker.NewSolicitudWorker(compraRepo, documentoRepo, deps.Storage),
		TcSync:    worker.NewTcSyncWorker(tcSvc),
	}
	return r, handlers
}
