package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mediavault/internal/config"
	"mediavault/internal/database"
	"mediavault/internal/mail"
	"mediavault/internal/middleware"
	"mediavault/internal/modules/admin"
	"mediavault/internal/modules/auth"
	"mediavault/internal/modules/contact"
	"mediavault/internal/modules/export"
	"mediavault/internal/modules/media"
	jwtsvc "mediavault/internal/pkg/jwt"
	"mediavault/internal/repository"
	"mediavault/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	files, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	contactRepo := repository.NewContactRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var mailer mail.Mailer
	if cfg.SMTPConfigured() {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.OTPTTL)
	} else {
		log.Println("SMTP not configured, one-time codes are logged to stdout")
		mailer = mail.NewConsoleMailer()
	}

	var google *auth.GoogleProvider
	if cfg.GoogleConfigured() {
		google = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	authService := auth.NewService(userRepo, j, mailer, cfg.OTPTTL, cfg.AdminCode)
	authHandler := auth.NewHandler(authService, google, cfg.Origin)

	adminService := admin.NewService(userRepo)
	adminHandler := admin.NewHandler(adminService)

	mediaService := media.NewService(mediaRepo, files)
	mediaHandler := media.NewHandler(mediaService, media.UploadLimits{
		SingleMax: cfg.MaxUploadSize,
		MultiMax:  cfg.MaxMultiSize,
		MaxFiles:  cfg.MaxMultiFiles,
		LargeMax:  cfg.MaxLargeSize,
	})

	exportService := export.NewService(mediaRepo, files)
	exportHandler := export.NewHandler(exportService)

	contactService := contact.NewService(contactRepo)
	contactHandler := contact.NewHandler(contactService)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.Origin))

	r.Static("/uploads", files.Dir())

	root := r.Group("/")
	authHandler.RegisterPublicRoutes(root)

	protected := r.Group("/")
	protected.Use(middleware.Auth(j, userRepo))
	{
		authHandler.RegisterProtectedRoutes(protected)

		api := protected.Group("/api")
		mediaHandler.RegisterRoutes(api)
		exportHandler.RegisterRoutes(api)

		authAdmin := protected.Group("/auth")
		authAdmin.Use(middleware.AdminOnly())
		apiAdmin := api.Group("/admin")
		apiAdmin.Use(middleware.AdminOnly())
		adminHandler.RegisterRoutes(authAdmin, apiAdmin)

		contactHandler.RegisterRoutes(api, apiAdmin)
	}

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
