package router

import (
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/config"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/handler"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/infra"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/middleware"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← tenant.Registry/Redis
func New(cfg *config.Config, tenants *tenant.Registry, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
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
	r.Use(middleware.Tenant(tenants))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(tenants)
	productionRepo := repository.NewProductionRepository(tenants)
	recordRepo := repository.NewRecordRepository(tenants)
	inputRepo := repository.NewInputRepository(tenants)
	outputRepo := repository.NewOutputRepository(tenants)
	boxRepo := repository.NewBoxRepository(tenants)
	masterRepo := repository.NewMasterRepository(tenants)
	costRepo := repository.NewCostRepository(tenants)
	reportRepo := repository.NewReportRepository(tenants)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	treeSvc := service.NewTreeService(productionRepo, recordRepo, masterRepo)
	provenanceSvc := service.NewProvenanceService(outputRepo, inputRepo, boxRepo)
	intakeSvc := service.NewIntakeService(productionRepo, recordRepo, inputRepo, outputRepo, boxRepo, masterRepo, provenanceSvc)
	costSvc := service.NewCostService(costRepo, outputRepo, productionRepo, recordRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	reportSvc := service.NewReportService(reportRepo, productionRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productionsH := handler.NewProductionsHandler(treeSvc)
	recordsH := handler.NewRecordsHandler(treeSvc, intakeSvc)
	outputsH := handler.NewOutputsHandler(intakeSvc, provenanceSvc)
	costsH := handler.NewCostsHandler(costSvc)
	catalogH := handler.NewCatalogHandler(masterRepo)
	boxesH := handler.NewBoxesHandler(boxRepo, rdb)
	reportsH := handler.NewReportsHandler(reportSvc, cfg.PDFStoragePath)
	usersH := handler.NewUsersHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(tenants, rdb, mailCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operator, supervisor, admin — declared per-endpoint
		anyRole := middleware.RequireRole("operator", "supervisor", "admin")
		elevated := middleware.RequireRole("supervisor", "admin")
		adminOnly := middleware.RequireRole("admin")

		prods := v1.Group("/productions")
		{
			prods.POST("", anyRole, productionsH.Create)
			prods.GET("", anyRole, productionsH.List)
			prods.GET("/:id", anyRole, productionsH.Get)
			prods.POST("/:id/close", elevated, productionsH.Close)
			prods.DELETE("/:id", elevated, productionsH.Delete)
			prods.GET("/:id/records", anyRole, productionsH.ListRecords)
			prods.GET("/:id/costs", anyRole, costsH.ListProductionCosts)
			prods.GET("/:id/allocation", anyRole, costsH.AllocateProduction)
			prods.POST("/:id/allocation-report", elevated, reportsH.Request)
		}

		recs := v1.Group("/production-records")
		{
			recs.POST("", anyRole, recordsH.Create)
			recs.GET("/:id", anyRole, recordsH.Get)
			recs.DELETE("/:id", elevated, recordsH.Delete)
			recs.GET("/:id/descendants", anyRole, recordsH.Descendants)
			recs.POST("/:id/inputs", anyRole, recordsH.AddInput)
			recs.GET("/:id/inputs", anyRole, recordsH.ListInputs)
			recs.POST("/:id/outputs", anyRole, recordsH.AddOutput)
			recs.GET("/:id/outputs", anyRole, recordsH.ListOutputs)
			recs.GET("/:id/consumptions", anyRole, recordsH.ListConsumptions)
			recs.GET("/:id/costs", anyRole, costsH.ListRecordCosts)
		}

		v1.POST("/output-consumptions", anyRole, outputsH.RegisterConsumption)
		v1.PUT("/output-consumptions/:id", anyRole, outputsH.UpdateConsumption)

		outs := v1.Group("/production-outputs")
		{
			outs.POST("/:id/sources", anyRole, outputsH.AddSource)
			outs.GET("/:id/sources", anyRole, outputsH.ListSources)
			outs.GET("/:id/trace", anyRole, outputsH.Trace)
		}

		costs := v1.Group("/costs")
		{
			costs.POST("", elevated, costsH.CreateCost)
			costs.DELETE("/:id", elevated, costsH.DeleteCost)
			costs.GET("/:id/allocation", anyRole, costsH.Allocate)
		}
		v1.GET("/cost-catalog", anyRole, costsH.ListCatalog)
		v1.POST("/cost-catalog", adminOnly, costsH.CreateCatalogEntry)

		// Master catalogs — everyone reads, admin writes
		v1.GET("/species", anyRole, catalogH.ListSpecies)
		v1.POST("/species", adminOnly, catalogH.CreateSpecies)
		v1.GET("/capture-zones", anyRole, catalogH.ListCaptureZones)
		v1.POST("/capture-zones", adminOnly, catalogH.CreateCaptureZone)
		v1.GET("/processes", anyRole, catalogH.ListProcesses)
		v1.POST("/processes", adminOnly, catalogH.CreateProcess)
		v1.GET("/products", anyRole, catalogH.ListProducts)
		v1.POST("/products", adminOnly, catalogH.CreateProduct)

		v1.GET("/pallets", anyRole, boxesH.ListPallets)
		v1.POST("/pallets", anyRole, boxesH.CreatePallet)
		v1.GET("/boxes", anyRole, boxesH.ListBoxes)
		v1.POST("/boxes", anyRole, boxesH.CreateBox)
		v1.GET("/boxes/:id", anyRole, boxesH.GetBox)

		v1.GET("/allocation-reports/:id", anyRole, reportsH.Get)
		v1.GET("/allocation-reports/:id/pdf", anyRole, reportsH.ServePDF)

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
