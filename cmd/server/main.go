package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"guestdesk-system/config"
	"guestdesk-system/internal/activity"
	"guestdesk-system/internal/database"
	"guestdesk-system/internal/employee"
	"guestdesk-system/internal/middleware"
	"guestdesk-system/internal/notify"
	"guestdesk-system/internal/server/handlers"
	"guestdesk-system/internal/uploads"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	secret := []byte(cfg.Auth.JWTSecret)

	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)

	photos, err := uploads.NewStore(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)
	if err != nil {
		log.Fatalf("Failed to prepare uploads directory: %v", err)
	}

	employeeRepo := employee.NewRepository(db)
	activityRepo := activity.NewRepository(db)

	mailSender, err := notify.NewMailSender(cfg.SMTP)
	if err != nil {
		log.Fatalf("Failed to configure mail transport: %v", err)
	}
	if mailSender != nil {
		log.Println("Email service configured and ready")
	} else {
		log.Println("Email service not configured, email channel disabled")
	}

	smsSender := notify.NewMockSMSSender()
	slackSender := notify.NewSlackSender(cfg.Slack.BotToken)

	// Interface-typed handles so a nil concrete sender stays nil.
	var email notify.EmailSender
	if mailSender != nil {
		email = mailSender
	}
	var slackAPI notify.SlackNotifier
	if slackSender != nil {
		slackAPI = slackSender
	}

	dispatcher := notify.NewDispatcher(employeeRepo, email, smsSender, slackAPI, cfg.Notify, cfg.Slack.DefaultChannel)

	employeeHandler := handlers.NewEmployeeHandler(employeeRepo, photos, rdb)
	activityHandler := handlers.NewActivityHandler(activityRepo, rdb)
	authHandler := handlers.NewAuthHandler(db, secret, cfg.Auth.TokenTTL)
	notifyHandler := handlers.NewNotifyHandler(dispatcher, email, smsSender, slackAPI, cfg.SMTP, cfg.Slack, cfg.Notify)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.CORS(cfg.Server.AllowedOrigin))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	authRequired := middleware.JWTAuth(db, secret)
	adminRequired := middleware.RequireAdmin()
	authLimiter := middleware.RateLimit("10-M", rdb)
	notifyLimiter := middleware.RateLimit("30-M", rdb)

	api := r.Group("/api")
	{
		employees := api.Group("/employees")
		{
			employees.GET("", employeeHandler.List)
			employees.GET("/departments", employeeHandler.Departments)
			employees.GET("/:id", employeeHandler.Get)

			employees.POST("", authRequired, adminRequired, employeeHandler.Create)
			employees.PUT("/:id", authRequired, adminRequired, employeeHandler.Update)
			employees.DELETE("/:id", authRequired, adminRequired, employeeHandler.Delete)
		}

		activityGroup := api.Group("/activity")
		{
			activityGroup.POST("", activityHandler.CheckIn)
			activityGroup.PUT("/:id/checkout", activityHandler.CheckOut)

			reads := activityGroup.Group("")
			reads.Use(authRequired)
			if cfg.Auth.ActivityAdminOnly {
				reads.Use(adminRequired)
			}
			reads.GET("", activityHandler.List)
			reads.GET("/stats", activityHandler.Stats)
			reads.GET("/employee/:id", activityHandler.ForEmployee)
		}

		notifyGroup := api.Group("/notify")
		{
			notifyGroup.POST("", notifyLimiter, notifyHandler.Send)

			admin := notifyGroup.Group("")
			admin.Use(authRequired, adminRequired)
			admin.POST("/bulk", notifyLimiter, notifyHandler.Bulk)
			admin.GET("/settings", notifyHandler.Settings)
			admin.POST("/test/email", notifyHandler.TestEmail)
			admin.POST("/test/sms", notifyHandler.TestSMS)
			admin.POST("/test/slack", notifyHandler.TestSlack)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authLimiter, authHandler.Login)
			authGroup.POST("/register", authLimiter, authHandler.Register)
			authGroup.GET("/profile", authRequired, authHandler.Profile)
			authGroup.PUT("/change-password", authRequired, authHandler.ChangePassword)
		}
	}

	r.Static("/uploads", cfg.Upload.Dir)
	r.GET("/health", handlers.Health)
	r.GET("/api", handlers.APIInfo)

	addr := ":" + cfg.Server.Port
	log.Printf("Guest check-in system running on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
