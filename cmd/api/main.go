package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-orders-ws/internal/handler"
	"go-orders-ws/internal/middleware"
	"go-orders-ws/internal/model"
	"go-orders-ws/internal/repository"
	"go-orders-ws/internal/service"
	"go-orders-ws/internal/ws"
	"go-orders-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Contact{}, &model.Material{},
		&model.Product{}, &model.ProductMaterial{}, &model.ProductPhoto{},
		&model.Order{}, &model.OrderProduct{}, &model.OrderLink{},
		&model.ProgressReport{}, &model.MaterialMovement{}, &model.StatusChange{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	contactRepo := repository.NewContactRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	linkRepo := repository.NewOrderLinkRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	reportRepo := repository.NewReportRepo(db)

	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, db, wsHub)
	catalogService := service.NewCatalogService(productRepo, materialRepo, movementRepo, db, wsHub)
	fulfillmentService := service.NewFulfillmentService(orderRepo, materialRepo, movementRepo, reportRepo, linkRepo, db, wsHub)
	dashService := service.NewDashboardService(movementRepo, materialRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)
	contactHandler := handler.NewContactHandler(contactRepo)
	productHandler := handler.NewProductHandler(catalogService)
	materialHandler := handler.NewMaterialHandler(catalogService, movementRepo)
	orderHandler := handler.NewOrderHandler(orderService, fulfillmentService, movementRepo, reportRepo, linkRepo)
	publicHandler := handler.NewPublicHandler(fulfillmentService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Order Fulfillment Pro v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// Tokenized order-link routes (the token is the credential)
	public := api.Group("/public")
	public.Get("/order-links/:token", publicHandler.ResolveLink)
	public.Post("/order-links/:token/progress", publicHandler.SubmitProgress)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes (authenticated users can view)
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/material-movement", dashHandler.GetMaterialMovement)
	protected.Get("/dashboard/low-stock", dashHandler.GetLowStockMaterials)

	// Order Routes (with privilege checks)
	protected.Get("/orders", orderHandler.GetOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders", middleware.RequirePrivilege("order:create"), orderHandler.CreateOrder)
	protected.Put("/orders/:id", middleware.RequirePrivilege("order:update"), orderHandler.UpdateOrder)
	protected.Delete("/orders/:id", middleware.RequirePrivilege("order:delete"), orderHandler.DeleteOrder)
	protected.Put("/orders/:id/status", middleware.RequirePrivilege("order:change_status"), orderHandler.ChangeStatus)
	protected.Get("/orders/:id/status-history", orderHandler.GetStatusHistory)

	// Progress + audit trails
	protected.Post("/orders/:id/progress", middleware.RequirePrivilege("report:create"), orderHandler.RecordProgress)
	protected.Get("/orders/:id/reports", middleware.RequirePrivilege("report:view"), orderHandler.GetReports)
	protected.Get("/orders/:id/movements", middleware.RequirePrivilege("material:view"), orderHandler.GetMovements)

	// Public link management
	protected.Post("/orders/:id/links", middleware.RequirePrivilege("link:create"), orderHandler.CreateLink)
	protected.Get("/orders/:id/links", middleware.RequirePrivilege("link:view"), orderHandler.GetLinks)
	protected.Delete("/order-links/:id", middleware.RequirePrivilege("link:revoke"), orderHandler.RevokeLink)

	// Product Routes (with privilege checks)
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)
	protected.Put("/products/:id/bom", middleware.RequirePrivilege("product:update"), productHandler.SetBillOfMaterials)
	protected.Post("/products/:id/photos", middleware.RequirePrivilege("product:update"), productHandler.AddPhoto)

	// Material Routes (with privilege checks)
	protected.Get("/materials", materialHandler.GetMaterials)
	protected.Get("/materials/:id", materialHandler.GetMaterial)
	protected.Post("/materials", middleware.RequirePrivilege("material:create"), materialHandler.CreateMaterial)
	protected.Put("/materials/:id", middleware.RequirePrivilege("material:update"), materialHandler.UpdateMaterial)
	protected.Delete("/materials/:id", middleware.RequirePrivilege("material:delete"), materialHandler.DeleteMaterial)
	protected.Post("/materials/:id/adjust", middleware.RequirePrivilege("material:adjust"), materialHandler.AdjustStock)
	protected.Get("/materials/:id/movements", middleware.RequirePrivilege("material:view"), materialHandler.GetMovements)

	// Contact Routes (with privilege checks)
	protected.Get("/contacts", contactHandler.GetContacts)
	protected.Get("/contacts/:id", contactHandler.GetContact)
	protected.Post("/contacts", middleware.RequirePrivilege("contact:create"), contactHandler.CreateContact)
	protected.Put("/contacts/:id", middleware.RequirePrivilege("contact:update"), contactHandler.UpdateContact)
	protected.Delete("/contacts/:id", middleware.RequirePrivilege("contact:delete"), contactHandler.DeleteContact)

	// User Management Routes (with privilege checks)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role & Privilege catalogs
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("ADMIN role assigned limited privileges")
	}

	// TAILOR only views assigned orders and submits progress
	tailorRole, err := roleRepo.FindByCode(model.RoleTailor)
	if err == nil && len(tailorRole.Privileges) == 0 {
		tailorPrivileges, _ := privilegeRepo.FindByCodes([]string{
			"order:view", "report:view", "report:create", "product:view",
		})
		db.Model(&tailorRole).Association("Privileges").Replace(tailorPrivileges)
		log.Println("TAILOR role assigned reporting privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
