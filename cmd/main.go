package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/Interface-corporation/grow-movement-app/internal/activity"
	"github.com/Interface-corporation/grow-movement-app/internal/authz"
	"github.com/Interface-corporation/grow-movement-app/internal/cart"
	"github.com/Interface-corporation/grow-movement-app/internal/handler"
	"github.com/Interface-corporation/grow-movement-app/internal/matching"
	"github.com/Interface-corporation/grow-movement-app/internal/middleware"
	"github.com/Interface-corporation/grow-movement-app/internal/model"
	"github.com/Interface-corporation/grow-movement-app/pkg/config"
	"github.com/Interface-corporation/grow-movement-app/pkg/database"
	"github.com/Interface-corporation/grow-movement-app/pkg/jwtutil"
	"github.com/Interface-corporation/grow-movement-app/pkg/logger"
	"github.com/Interface-corporation/grow-movement-app/prometheus"
)

func main() {
	conf, err := config.Load("grow-movement")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}

	if err := database.MigrateModels(
		&model.Entrepreneur{},
		&model.Coach{},
		&model.Match{},
		&model.MatchingRequest{},
		&model.ActivityLog{},
		&model.User{},
		&model.UserRole{},
	); err != nil {
		log.Fatal("Failed to migrate database models")
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	recorder := activity.NewRecorder(db, log)
	engine := matching.NewEngine(db, recorder, log)
	carts := cart.NewManager(conf.Cart.MaxItems, conf.Cart.SessionTTL)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/healthz", handler.HealthCheck)

	authHandler := &handler.AuthHandler{Engine: engine, JWT: jwt}
	cartHandler := &handler.CartHandler{Carts: carts}
	requestHandler := &handler.MatchingRequestHandler{Engine: engine, Carts: carts}
	matchHandler := &handler.MatchHandler{Engine: engine}
	entrepreneurHandler := &handler.EntrepreneurHandler{Recorder: recorder}
	coachHandler := &handler.CoachHandler{Recorder: recorder}
	activityHandler := &handler.ActivityHandler{}

	// Public routes
	e.POST("/auth/eligibility", authHandler.CheckEligibility)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/entrepreneurs", entrepreneurHandler.List)
	e.GET("/entrepreneurs/:id", entrepreneurHandler.Get)
	e.POST("/applications/entrepreneurs", entrepreneurHandler.Apply)
	e.POST("/applications/coaches", coachHandler.Apply)

	// Selection cart, keyed by an opaque session header
	e.POST("/cart/session", cartHandler.NewSession)
	e.GET("/cart", cartHandler.Get)
	e.POST("/cart/items", cartHandler.AddItem)
	e.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	e.POST("/cart/items/:id/move-up", cartHandler.MoveUp)
	e.POST("/cart/items/:id/move-down", cartHandler.MoveDown)
	e.DELETE("/cart", cartHandler.Clear)

	// Matching request submission is public but gated by coach verification
	e.POST("/matching-requests", requestHandler.Submit)

	// Authenticated routes
	auth := e.Group("", middleware.JWTAuthMiddleware(jwt))

	auth.GET("/matching-requests/mine", requestHandler.ListMine)
	auth.POST("/matching-requests/:id/cancel", requestHandler.Cancel,
		middleware.RequireAction(authz.ActionCancelOwnRequest))

	auth.GET("/matching-requests", requestHandler.List,
		middleware.RequireAction(authz.ActionSetRequestStatus))
	auth.PUT("/matching-requests/:id/status", requestHandler.SetStatus,
		middleware.RequireAction(authz.ActionSetRequestStatus))

	auth.GET("/matches", matchHandler.List, middleware.RequireAction(authz.ActionCreateMatch))
	auth.GET("/matches/:id", matchHandler.Get, middleware.RequireAction(authz.ActionCreateMatch))
	auth.POST("/matches", matchHandler.Create, middleware.RequireAction(authz.ActionCreateMatch))
	auth.POST("/matches/:id/complete", matchHandler.Complete, middleware.RequireAction(authz.ActionCompleteMatch))
	auth.POST("/matches/:id/unmatch", matchHandler.Unmatch, middleware.RequireAction(authz.ActionUnmatch))
	auth.DELETE("/matches/:id", matchHandler.Delete, middleware.RequireAction(authz.ActionDeleteMatch))

	auth.GET("/coaches", coachHandler.List, middleware.RequireAction(authz.ActionListCoaches))
	auth.POST("/coaches/:id/accept", coachHandler.Accept, middleware.RequireAction(authz.ActionReviewApplications))
	auth.POST("/coaches/:id/reject", coachHandler.Reject, middleware.RequireAction(authz.ActionReviewApplications))
	auth.POST("/entrepreneurs/:id/admit", entrepreneurHandler.Admit, middleware.RequireAction(authz.ActionReviewApplications))
	auth.POST("/entrepreneurs/:id/reject", entrepreneurHandler.Reject, middleware.RequireAction(authz.ActionReviewApplications))

	auth.GET("/activity", activityHandler.List, middleware.RequireAction(authz.ActionReadActivityLog))

	log.Info("Starting grow-movement service on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
