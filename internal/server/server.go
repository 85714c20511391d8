package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardstack/internal/config"
	"cardstack/internal/db"
	"cardstack/internal/handler"
	"cardstack/internal/middleware"
	"cardstack/internal/model"
	"cardstack/internal/rbac"
	"cardstack/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Apply schema migrations before opening GORM
	migrateURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	if err := db.RunMigrations(migrateURL); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	permissionRepo := repository.NewPermissionRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	revocationRepo := repository.NewRevocationRepository(gormDB)
	boardRepo := repository.NewBoardRepository(gormDB)
	membershipRepo := repository.NewMembershipRepository(gormDB)
	deckRepo := repository.NewDeckRepository(gormDB)
	cardRepo := repository.NewCardRepository(gormDB)
	cardSetRepo := repository.NewCardSetRepository(gormDB)

	// Initialize the RBAC core
	resolver := rbac.NewResolver(userRepo, membershipRepo)
	catalog := rbac.NewCatalog(permissionRepo, resolver)
	registry := rbac.NewRegistry(roleRepo, permissionRepo, resolver)
	revocations := rbac.NewRevocations(userRepo, permissionRepo, revocationRepo, resolver)
	lifecycle := rbac.NewLifecycle(boardRepo, membershipRepo, userRepo, roleRepo, resolver)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, resolver, cfg.JWTSecret)
	permissionHandler := handler.NewPermissionHandler(catalog)
	roleHandler := handler.NewRoleHandler(registry)
	revocationHandler := handler.NewRevocationHandler(revocations)
	boardHandler := handler.NewBoardHandler(boardRepo, lifecycle, resolver)
	membershipHandler := handler.NewMembershipHandler(lifecycle, resolver)
	deckHandler := handler.NewDeckHandler(deckRepo, resolver)
	cardHandler := handler.NewCardHandler(cardRepo, deckRepo, resolver)
	cardSetHandler := handler.NewCardSetHandler(cardSetRepo, resolver)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/me/permissions", userHandler.MyPermissions)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)

		// Membership lifecycle routes
		authorized.POST("/boards/:id/invite/rotate", membershipHandler.RotateInviteCode)
		authorized.POST("/boards/:id/join", membershipHandler.Join)
		authorized.GET("/boards/:id/members", membershipHandler.ListMembers)
		authorized.POST("/boards/:id/members", membershipHandler.AddMembers)
		authorized.DELETE("/boards/:id/members", membershipHandler.RemoveMembers)
		authorized.POST("/boards/:id/leave", membershipHandler.Leave)
		authorized.PUT("/boards/:id/card-state", membershipHandler.SetCardState)

		// Role administration routes
		roleAdmin := authorized.Group("/roles")
		roleAdmin.Use(middleware.RequirePermission(resolver, model.PermRolesManage))
		{
			roleAdmin.POST("", roleHandler.Create)
			roleAdmin.GET("", roleHandler.List)
			roleAdmin.GET("/:id", roleHandler.GetByID)
			roleAdmin.PUT("/:id", roleHandler.Update)
			roleAdmin.DELETE("/:id", roleHandler.Delete)
		}

		// Permission administration routes
		permAdmin := authorized.Group("/permissions")
		permAdmin.Use(middleware.RequirePermission(resolver, model.PermPermissionsManage))
		{
			permAdmin.POST("", permissionHandler.Create)
			permAdmin.GET("", permissionHandler.List)
			permAdmin.DELETE("/:name", permissionHandler.Delete)
		}

		// Revocation administration routes
		userAdmin := authorized.Group("/users")
		userAdmin.Use(middleware.RequirePermission(resolver, model.PermUsersManage))
		{
			userAdmin.GET("/:id/revocations", revocationHandler.Get)
			userAdmin.POST("/:id/revocations", revocationHandler.Add)
			userAdmin.PUT("/:id/revocations", revocationHandler.Set)
			userAdmin.DELETE("/:id/revocations", revocationHandler.Remove)
		}

		// Deck routes
		authorized.POST("/decks", deckHandler.Create)
		authorized.GET("/boards/:id/decks", deckHandler.GetByBoard)
		authorized.GET("/decks/:id", deckHandler.GetByID)
		authorized.PUT("/decks/:id", deckHandler.Update)
		authorized.DELETE("/decks/:id", deckHandler.Delete)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.GET("/decks/:id/cards", cardHandler.GetByDeck)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/assign", cardHandler.Assign)
		authorized.DELETE("/cards/:id/assign", cardHandler.Unassign)
		authorized.POST("/cards/:id/due-date", cardHandler.SetDueDate)

		// Card set routes
		authorized.POST("/card-sets", cardSetHandler.Create)
		authorized.GET("/boards/:id/card-sets", cardSetHandler.GetByBoard)
		authorized.GET("/card-sets/:id/cards", cardSetHandler.GetCards)
		authorized.POST("/card-sets/:id/cards/:card_id", cardSetHandler.AddCard)
		authorized.DELETE("/card-sets/:id/cards/:card_id", cardSetHandler.RemoveCard)
		authorized.DELETE("/card-sets/:id", cardSetHandler.Delete)
	}
	return &Server{
		Engine: r,
		DB:     gormDB,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
