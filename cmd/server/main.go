package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"AFD-SVC/internal"
	"AFD-SVC/internal/config"
	"AFD-SVC/internal/handlers"
	"AFD-SVC/internal/models"
	"AFD-SVC/internal/services"
	"AFD-SVC/internal/storage"

	"github.com/gin-gonic/gin"
)

// logSender is the placeholder delivery collaborator. Real email/fax
// transports plug in behind services.Sender.
type logSender struct{}

func (logSender) Send(ctx context.Context, affidavit *models.Affidavit, fileURL, channel string) error {
	log.Printf("Sending affidavit %s over %s: %s", affidavit.ID, channel, fileURL)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := internal.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer internal.CloseDB()

	ctx := context.Background()
	gcsClient, err := storage.NewGCSClient(ctx, cfg.GCS.BucketName, cfg.GCS.ProjectID, cfg.GCS.CredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize GCS client: %v", err)
	}
	defer gcsClient.Close()

	templateService := services.NewTemplateService()
	affidavitService := services.NewAffidavitService(gcsClient, templateService, logSender{}, cfg.Verification.BaseURL)
	verificationService := services.NewVerificationService()
	activityLogService := services.NewActivityLogService()

	templatesHandler := handlers.NewTemplatesHandler(templateService)
	affidavitsHandler := handlers.NewAffidavitsHandler(affidavitService, gcsClient)
	verifyHandler := handlers.NewVerifyHandler(verificationService, affidavitService, cfg.Verification.BaseURL, cfg.Verification.QRSize)
	logsHandler := handlers.NewLogsHandler(activityLogService)

	r := gin.Default()
	r.Use(activityLogService.Middleware())

	// Cleanup for leftover render scratch files
	cleanupService := handlers.NewFileCleanupService(cfg.Render.OutputDir, cfg.Render.CleanupMaxAge)
	cleanupService.Start()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutting down server...")
		cleanupService.Stop()
		internal.CloseDB()
		os.Exit(0)
	}()

	// Public verification flow: both URL shapes are accepted
	r.GET("/verify/:documentId/:code", verifyHandler.Verify)
	r.GET("/verify", verifyHandler.Verify)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/templates", templatesHandler.Create)
		v1.GET("/templates", templatesHandler.List)
		v1.GET("/templates/:templateId", templatesHandler.Get)
		v1.PUT("/templates/:templateId/structure", templatesHandler.UpdateStructure)
		v1.POST("/templates/:templateId/clone", templatesHandler.Clone)
		v1.POST("/templates/:templateId/deactivate", templatesHandler.Deactivate)
		v1.POST("/templates/:templateId/preview", templatesHandler.Preview)
		v1.POST("/templates/validate", templatesHandler.Validate)
		v1.POST("/templates/validate-elements", templatesHandler.ValidateElements)

		v1.POST("/affidavits", affidavitsHandler.Create)
		v1.GET("/affidavits/:affidavitId", affidavitsHandler.Get)
		v1.PUT("/affidavits/:affidavitId/content", affidavitsHandler.UpdateContent)
		v1.POST("/affidavits/:affidavitId/submit", affidavitsHandler.Submit)
		v1.POST("/affidavits/:affidavitId/approve", affidavitsHandler.Approve)
		v1.POST("/affidavits/:affidavitId/reject", affidavitsHandler.Reject)
		v1.POST("/affidavits/:affidavitId/generate", affidavitsHandler.Generate)
		v1.POST("/affidavits/:affidavitId/send", affidavitsHandler.Send)
		v1.POST("/affidavits/:affidavitId/receive", affidavitsHandler.MarkReceived)
		v1.POST("/affidavits/:affidavitId/regenerate", affidavitsHandler.Regenerate)
		v1.GET("/affidavits/:affidavitId/download", affidavitsHandler.Download)
		v1.GET("/affidavits/:affidavitId/qr", verifyHandler.QRCode)
		v1.GET("/patients/:patientId/affidavits", affidavitsHandler.ListByPatient)

		v1.GET("/logs", logsHandler.GetAllLogs)
	}

	log.Printf("Starting server on :%s", cfg.Server.Port)
	r.Run(":" + cfg.Server.Port)
}
