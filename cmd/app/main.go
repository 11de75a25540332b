package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"tradementor/cmd/fx/account_fx"
	"tradementor/cmd/fx/billing_fx"
	"tradementor/cmd/fx/consultation_fx"
	"tradementor/cmd/fx/db_fx"
	"tradementor/cmd/fx/gateway_fx"
	"tradementor/cmd/fx/jobs_fx"
	"tradementor/cmd/fx/leveltest_fx"
	"tradementor/cmd/fx/logger_fx"
	"tradementor/cmd/fx/mail_fx"
	"tradementor/cmd/fx/redis_fx"
	"tradementor/internal/api/controllers"
	"tradementor/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		logger_fx.Module,
		db_fx.Module,
		redis_fx.Module,
		gateway_fx.Module,
		mail_fx.Module,

		account_fx.Module,
		billing_fx.Module,
		consultation_fx.Module,
		leveltest_fx.Module,
		jobs_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, logger *zap.Logger) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("port", port))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	planController *controllers.PlanController,
	subscriptionController *controllers.SubscriptionController,
	paymentController *controllers.PaymentController,
	consultationController *controllers.ConsultationController,
	levelTestController *controllers.LevelTestController,
) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r,
		accountController, planController, subscriptionController,
		paymentController, consultationController, levelTestController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	planController *controllers.PlanController,
	subscriptionController *controllers.SubscriptionController,
	paymentController *controllers.PaymentController,
	consultationController *controllers.ConsultationController,
	levelTestController *controllers.LevelTestController) {

	v1 := r.Group("/api/v1")

	accounts := v1.Group("/accounts")
	accounts.POST("/signup", accountController.Signup)
	accounts.POST("/login", accountController.Login)
	accounts.POST("/send-verification", accountController.SendVerificationCode)
	accounts.POST("/verify-code", accountController.VerifyCode)
	accounts.GET("/me", middleware.JWTAuthMiddleware(), accountController.GetMe)

	v1.GET("/plans", planController.GetPlans)
	v1.GET("/consultations/availability", consultationController.GetAvailability)

	auth := v1.Group("", middleware.JWTAuthMiddleware())

	subscriptions := auth.Group("/subscriptions")
	subscriptions.POST("", subscriptionController.Create)
	subscriptions.GET("/me", subscriptionController.GetMine)
	subscriptions.POST("/cancel", subscriptionController.Cancel)

	payments := auth.Group("/payments")
	payments.GET("/me", paymentController.ListMyPayments)

	methods := auth.Group("/payment-methods")
	methods.POST("", paymentController.RegisterPaymentMethod)
	methods.GET("", paymentController.ListPaymentMethods)
	methods.DELETE("/:id", paymentController.DeletePaymentMethod)
	methods.POST("/:id/primary", paymentController.SetPrimaryPaymentMethod)

	consultations := auth.Group("/consultations")
	consultations.POST("", consultationController.Create)
	consultations.GET("/me", consultationController.GetMine)
	consultations.PUT("/:id", consultationController.Update)
	consultations.DELETE("/:id", consultationController.Delete)

	levelTests := auth.Group("/level-tests")
	levelTests.POST("/submit", levelTestController.Submit)
	levelTests.GET("/me", levelTestController.ListMine)
	levelTests.GET("/:id", levelTestController.GetDetail)

	admin := v1.Group("/admin", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("ADMIN"))
	admin.POST("/plans", planController.CreatePlan)
	admin.POST("/plans/:id/activate", planController.ActivatePlan)
	admin.PATCH("/subscriptions/:id/status", subscriptionController.UpdateStatus)
	admin.GET("/payments", paymentController.ListAllPayments)
	admin.POST("/consultations/blocks", consultationController.BlockSlot)
	admin.DELETE("/consultations/blocks", consultationController.UnblockSlot)
}
