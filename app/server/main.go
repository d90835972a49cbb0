package main

import (
	"attendance/config"
	"attendance/middleware"
	"attendance/services/attendance/delivery"
	"attendance/services/attendance/repository"
	"attendance/services/attendance/usecase"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	if err := config.LoadEnv(); err != nil {
		logrus.Warnf("no .env file loaded: %v", err)
	}

	log = config.GetLogrusInstance()

	if len(config.GetJWTSecret()) == 0 {
		log.Fatal("JWT_SECRET must be set")
	}

	startHTTP()
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestID())

	db, err := config.BootDB()
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
		return
	}

	timeout := config.GetUseCaseTimeout()

	attendanceRepo := repository.NewAttendanceRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	userRepo := repository.NewUserRepository(db)

	attendanceUC := usecase.NewAttendanceUseCase(attendanceRepo, timeout)
	rosterUC := usecase.NewRosterUseCase(rosterRepo, timeout)
	authUC := usecase.NewAuthUseCase(userRepo, timeout)

	delivery.NewAuthDelivery(app, authUC)
	delivery.NewRosterDelivery(app, rosterUC)
	delivery.NewAttendanceDelivery(app, attendanceUC)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}
