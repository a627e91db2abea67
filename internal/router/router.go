package router

import (
	"strings"
	"time"

	"tiendaropa/internal/config"
	"tiendaropa/internal/handler"
	"tiendaropa/internal/middleware"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"
	"tiendaropa/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators the router wires into services.
// Redis and Dispatcher are optional.
type Deps struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Dispatcher   service.JobDispatcher
	Comprobantes service.ComprobanteService
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	db, rdb := deps.DB, deps.Redis

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(strings.Split(cfg.CORSOrigins, ",")))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, cfg.RateLimitRPM, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	tallaRepo := repository.NewTallaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	catalogoSvc := service.NewCatalogoService(categoriaRepo, tallaRepo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo)
	inventarioSvc := service.NewInventarioService(inventarioRepo, productoRepo, tallaRepo, movimientoRepo, historialRepo, cfg.StockCriticoDefault)
	ventaSvc := service.NewVentaService(ventaRepo, clienteRepo, inventarioRepo, movimientoRepo, deps.Dispatcher)
	compraSvc := service.NewCompraService(compraRepo, proveedorRepo, productoRepo, tallaRepo, inventarioRepo, movimientoRepo, cfg.StockCriticoDefault)
	reversionSvc := service.NewReversionService(ventaRepo, compraRepo, inventarioRepo, movimientoRepo, cfg.StockCriticoDefault)
	reporteSvc := service.NewReporteService(reporteRepo, inventarioRepo, rdb)

	comprobanteSvc := deps.Comprobantes
	if comprobanteSvc == nil {
		comprobanteSvc = service.NewComprobanteService(repository.NewComprobanteRepository(db), ventaRepo, cfg.StoreName, cfg.PDFStoragePath)
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, reversionSvc, comprobanteSvc)
	comprasH := handler.NewComprasHandler(compraSvc, reversionSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	const (
		admin    = model.RolAdministrador
		vendedor = model.RolVendedor
		bodega   = model.RolBodeguero
	)
	todos := middleware.RequireRole(admin, vendedor, bodega)

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/rut/validar", todos, handler.ValidarRUT)

		usuarios := v1.Group("/usuarios", middleware.RequireRole(admin))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:rut", usuariosH.Obtener)
			usuarios.PUT("/:rut", usuariosH.Actualizar)
			usuarios.DELETE("/:rut", usuariosH.Desactivar)
			usuarios.PATCH("/:rut/reactivar", usuariosH.Reactivar)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole(admin, vendedor))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:rut", clientesH.ObtenerPorRUT)
			clientes.PUT("/:rut", clientesH.Actualizar)
			clientes.DELETE("/:rut", middleware.RequireRole(admin), clientesH.Eliminar)
		}

		prov := v1.Group("/proveedores", middleware.RequireRole(admin, bodega))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:rut", proveedoresH.ObtenerPorRUT)
			prov.PUT("/:rut", proveedoresH.Actualizar)
			prov.DELETE("/:rut", proveedoresH.Eliminar)
			prov.PATCH("/:rut/reactivar", proveedoresH.Reactivar)
		}

		// Catalog: everyone reads, administrador writes
		v1.GET("/categorias", todos, catalogoH.ListarCategorias)
		v1.GET("/tallas", todos, catalogoH.ListarTallas)
		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		v1.GET("/productos/:id/historial-precios", middleware.RequireRole(admin, bodega), productosH.HistorialPrecios)
		cat := v1.Group("", middleware.RequireRole(admin))
		{
			cat.POST("/categorias", catalogoH.CrearCategoria)
			cat.PUT("/categorias/:id", catalogoH.ActualizarCategoria)
			cat.DELETE("/categorias/:id", catalogoH.DesactivarCategoria)
			cat.POST("/tallas", catalogoH.CrearTalla)
			cat.DELETE("/tallas/:id", catalogoH.EliminarTalla)
			cat.POST("/productos", productosH.Crear)
			cat.PUT("/productos/:id", productosH.Actualizar)
			cat.DELETE("/productos/:id", productosH.Eliminar)
		}

		v1.GET("/inventario", todos, inventarioH.Listar)
		inv := v1.Group("/inventario", middleware.RequireRole(admin, bodega))
		{
			inv.PUT("", inventarioH.Upsert)
			inv.POST("/ajuste", inventarioH.Ajustar)
			inv.GET("/alertas", inventarioH.ObtenerAlertas)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
		}

		ventas := v1.Group("/ventas", middleware.RequireRole(admin, vendedor))
		{
			ventas.POST("", ventasH.RegistrarVenta)
			ventas.GET("", ventasH.ListarVentas)
			ventas.GET("/:id", ventasH.ObtenerVenta)
			ventas.GET("/:id/boleta", ventasH.DescargarBoleta)
			ventas.PATCH("/:id/anular", middleware.RequireRole(admin), ventasH.AnularVenta)
		}

		compras := v1.Group("/compras", middleware.RequireRole(admin, bodega))
		{
			compras.POST("", comprasH.RegistrarCompra)
			compras.GET("", comprasH.ListarCompras)
			compras.GET("/:id", comprasH.ObtenerCompra)
			compras.PATCH("/:id/anular", middleware.RequireRole(admin), comprasH.AnularCompra)
		}

		reportes := v1.Group("/reportes", middleware.RequireRole(admin))
		{
			reportes.GET("/ventas", reportesH.ResumenVentas)
			reportes.GET("/compras", reportesH.ResumenCompras)
			reportes.GET("/top-productos", reportesH.TopProductos)
			reportes.GET("/stock-critico", reportesH.StockCritico)
		}

		if rdb != nil {
			jobsH := handler.NewJobsHandler(rdb)
			jobs := v1.Group("/admin/jobs", middleware.RequireRole(admin))
			{
				jobs.GET("", jobsH.EstadoDLQ)
				jobs.POST("/:cola/reintentar", jobsH.Reintentar)
			}
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
