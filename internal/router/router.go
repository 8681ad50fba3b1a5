package router

import (
	"time"

	"github.com/angelous0/muestras/internal/config"
	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/handler"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/middleware"
	"github.com/angelous0/muestras/internal/model"
	"github.com/angelous0/muestras/internal/repository"
	"github.com/angelous0/muestras/internal/service"
	"github.com/angelous0/muestras/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived resources the router wires into handlers.
// Redis and the storage breaker are optional.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Almacen infra.Almacenamiento
	CB      *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis/Storage
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))
	}

	db := deps.DB

	// ── Repositories ─────────────────────────────────────────────────────────
	marcaRepo := repository.NewRepositorio[model.Marca](db, repository.OrdenManual)
	tipoProductoRepo := repository.NewRepositorio[model.TipoProducto](db, repository.OrdenManual)
	entalleRepo := repository.NewRepositorio[model.Entalle](db, repository.OrdenManual)
	telaRepo := repository.NewRepositorio[model.Tela](db, repository.OrdenManual)
	hiloRepo := repository.NewRepositorio[model.Hilo](db, repository.OrdenManual)
	estadoCosturaRepo := repository.NewRepositorio[model.EstadoCostura](db, repository.OrdenManual)
	muestraBaseRepo := repository.NewRepositorio[model.MuestraBase](db, repository.OrdenReciente)
	fichaRepo := repository.NewRepositorio[model.Ficha](db, repository.OrdenReciente)
	tizadoRepo := repository.NewRepositorio[model.Tizado](db, repository.OrdenReciente)
	baseRepo := repository.NewRepositorio[model.Base](db, repository.OrdenReciente)

	// ── Services ─────────────────────────────────────────────────────────────

	// Cleanup queue for blobs that lose their last reference. Without redis
	// replaced files are left in place.
	var cola service.ColaArchivos
	if deps.Redis != nil {
		cola = worker.NewDispatcher(deps.Redis)
	}
	catalogo := service.OpcionesCatalogo{
		Ordenado:   true,
		Paginacion: service.Paginacion{PorDefecto: cfg.ListDefaultLimit, Maximo: cfg.ListMaxLimit},
		Cola:       cola,
	}
	compuesto := catalogo
	compuesto.Ordenado = false

	marcaSvc := service.NewCatalogoService(marcaRepo, service.ConversorMarca, catalogo)
	tipoProductoSvc := service.NewCatalogoService(tipoProductoRepo, service.ConversorTipoProducto, catalogo)
	entalleSvc := service.NewCatalogoService(entalleRepo, service.ConversorEntalle, catalogo)
	telaSvc := service.NewCatalogoService(telaRepo, service.ConversorTela, catalogo)
	hiloSvc := service.NewCatalogoService(hiloRepo, service.ConversorHilo, catalogo)
	estadoCosturaSvc := service.NewCatalogoService(estadoCosturaRepo, service.ConversorEstadoCostura, catalogo)

	muestraBaseSvc := service.NewMuestraBaseService(muestraBaseRepo, service.CatalogosReferencia{
		Marcas:        marcaRepo,
		TiposProducto: tipoProductoRepo,
		Telas:         telaRepo,
		Entalles:      entalleRepo,
	}, deps.Almacen, compuesto)
	fichaSvc := service.NewFichaService(fichaRepo, deps.Almacen, compuesto)
	tizadoSvc := service.NewTizadoService(tizadoRepo, deps.Almacen, compuesto)
	baseSvc := service.NewBaseService(baseRepo, deps.Almacen, compuesto)
	archivoSvc := service.NewArchivoService(deps.Almacen)

	dashboardSvc := service.NewDashboardService(map[string]service.Contador{
		"marcas":          marcaRepo,
		"tipos_producto":  tipoProductoRepo,
		"entalles":        entalleRepo,
		"telas":           telaRepo,
		"hilos":           hiloRepo,
		"estados_costura": estadoCosturaRepo,
		"muestras_base":   muestraBaseRepo,
		"fichas":          fichaRepo,
		"tizados":         tizadoRepo,
		"bases":           baseRepo,
	}, deps.Redis, time.Duration(cfg.StatsCacheSeconds)*time.Second)

	// ── Handlers ─────────────────────────────────────────────────────────────
	subidas := handler.Subidas{MaxBytes: int64(cfg.MaxUploadMB) << 20}

	marcasH := handler.NewCatalogoHandler(marcaSvc)
	tiposProductoH := handler.NewCatalogoHandler(tipoProductoSvc)
	entallesH := handler.NewCatalogoHandler(entalleSvc)
	telasH := handler.NewCatalogoHandler(telaSvc)
	hilosH := handler.NewCatalogoHandler(hiloSvc)
	estadosCosturaH := handler.NewCatalogoHandler(estadoCosturaSvc)

	muestrasBaseH := handler.NewCatalogoHandler[model.MuestraBase, dto.CrearMuestraBaseRequest, dto.ActualizarMuestraBaseRequest](muestraBaseSvc)
	fichasH := handler.NewCatalogoHandler[model.Ficha, dto.CrearFichaRequest, dto.ActualizarFichaRequest](fichaSvc)
	tizadosH := handler.NewCatalogoHandler[model.Tizado, dto.CrearTizadoRequest, dto.ActualizarTizadoRequest](tizadoSvc)
	basesH := handler.NewCatalogoHandler[model.Base, dto.CrearBaseRequest, dto.ActualizarBaseRequest](baseSvc)
	archivosH := handler.NewArchivosHandler(archivoSvc, subidas)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, deps.Redis, deps.CB))

	api := r.Group("/api")
	api.GET("/", handler.Root)

	// Catálogos ordenables
	marcasH.Registrar(api.Group("/marcas"), true)
	tiposProductoH.Registrar(api.Group("/tipos-producto"), true)
	entallesH.Registrar(api.Group("/entalles"), true)
	telasH.Registrar(api.Group("/telas"), true)
	hilosH.Registrar(api.Group("/hilos"), true)
	estadosCosturaH.Registrar(api.Group("/estados-costura"), true)

	// Compuestos
	muestras := api.Group("/muestras-base")
	muestrasBaseH.Registrar(muestras, false)
	handler.NewArchivoUnicoHandler[model.MuestraBase](muestraBaseSvc, subidas).Registrar(muestras, "archivo-costos")

	fichas := api.Group("/fichas")
	fichasH.Registrar(fichas, false)
	handler.NewArchivoUnicoHandler[model.Ficha](fichaSvc, subidas).Registrar(fichas, "archivo")

	tizados := api.Group("/tizados")
	tizadosH.Registrar(tizados, false)
	handler.NewArchivoUnicoHandler[model.Tizado](tizadoSvc, subidas).Registrar(tizados, "archivo")

	bases := api.Group("/bases")
	basesH.Registrar(bases, false)
	handler.NewArchivoUnicoHandler(baseSvc.Patron(), subidas).Registrar(bases, "patron")
	handler.NewArchivoUnicoHandler(baseSvc.Imagen(), subidas).Registrar(bases, "imagen")
	handler.NewBaseAdjuntosHandler(baseSvc, subidas).Registrar(bases)

	// Archivos sueltos
	api.POST("/archivos/:categoria", archivosH.Subir)
	api.GET("/archivos/*clave", archivosH.Obtener)

	api.GET("/dashboard/stats", dashboardH.Stats)

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
