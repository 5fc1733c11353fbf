package main

import (
	"context"
	"fmt"
	stdlog "log"
	"mediconnect-service/internal/app/config"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/app/delivery/http/controllers"
	"mediconnect-service/internal/app/delivery/http/middlewares"
	"mediconnect-service/internal/app/delivery/http/routers"
	"mediconnect-service/internal/app/drivers/database"
	"mediconnect-service/internal/app/drivers/logger"
	"mediconnect-service/internal/app/drivers/messaging"
	"mediconnect-service/internal/app/drivers/payment"
	"mediconnect-service/internal/app/drivers/storage"
	"mediconnect-service/internal/app/drivers/telemetry"
	"mediconnect-service/internal/app/services/core/appointments"
	"mediconnect-service/internal/app/services/core/bookings"
	"mediconnect-service/internal/app/services/core/doctors"
	"mediconnect-service/internal/app/services/core/patients"
	"mediconnect-service/internal/app/services/core/pricing"
	"mediconnect-service/internal/app/services/shared/events"
	"mediconnect-service/internal/app/services/shared/locker"
	"mediconnect-service/internal/app/services/shared/memstore"
	paymentGateway "mediconnect-service/internal/app/services/shared/payment_gateway"
	"mediconnect-service/internal/app/services/shared/reconciliation"
	redisRepository "mediconnect-service/internal/app/services/shared/redis"
	objectStorage "mediconnect-service/internal/app/services/shared/storage"
	"mediconnect-service/internal/pkg/constvars"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		stdlog.Fatalf("Error initializing logger: %v", err)
	}

	ctx := context.Background()

	tracerShutdown, err := telemetry.NewTracerProvider(ctx, driverConfig, internalConfig)
	if err != nil {
		log.Warn("Tracing disabled", zap.Error(err))
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         log,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
		TracerShutdown: tracerShutdown,
	}

	err = bootstrapingTheApp(ctx, bootstrap)
	if err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", internalConfig.App.Address, internalConfig.App.Port),
		Handler: bootstrap.Router,
	}

	go func() {
		log.Info("Server listening", zap.String("address", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Failed to close every client", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	log := bootstrap.Logger
	driverConfig := bootstrap.DriverConfig
	internalConfig := bootstrap.InternalConfig

	// Redis
	var redisRepo contracts.RedisRepository
	if driverConfig.Redis.Host != "" {
		client, err := database.NewRedisClient(ctx, driverConfig)
		if err != nil {
			if internalConfig.Storage.Driver != constvars.StorageDriverMemory {
				return err
			}
			log.Warn("Redis unavailable, running without idempotency records and scheduled sweeps", zap.Error(err))
		} else {
			bootstrap.Redis = client
			redisRepo = redisRepository.NewRedisRepository(client)
		}
	}

	// RabbitMQ
	var eventPublisher contracts.EventPublisher
	var reconciliationPublisher contracts.EventPublisher
	if driverConfig.RabbitMQ.Host != "" {
		conn, err := messaging.NewRabbitMQ(driverConfig)
		if err != nil {
			return err
		}
		bootstrap.RabbitMQ = conn

		eventPublisher, err = events.NewRabbitMQPublisher(conn, internalConfig.RabbitMQ.EventsExchange, log)
		if err != nil {
			return err
		}
		reconciliationPublisher, err = events.NewRabbitMQQueuePublisher(conn, internalConfig.RabbitMQ.ReconciliationQueue, log)
		if err != nil {
			return err
		}
	}

	// Minio
	var avatarStore contracts.AvatarStore
	if driverConfig.Minio.Host != "" {
		client, err := storage.NewMinio(driverConfig)
		if err != nil {
			return err
		}
		bootstrap.Minio = client
		avatarStore = objectStorage.NewMinioAvatarStore(
			client,
			internalConfig.Minio.AvatarBucketName,
			time.Duration(internalConfig.Minio.AvatarURLExpiryTimeInMinutes)*time.Minute,
		)
	}

	// Storage
	var reservationStore contracts.ReservationStore
	var doctorRepository contracts.DoctorRepository
	var patientRepository contracts.PatientRepository
	switch internalConfig.Storage.Driver {
	case constvars.StorageDriverMongo:
		client, err := database.NewMongoDB(ctx, driverConfig)
		if err != nil {
			return err
		}
		bootstrap.MongoDB = client
		dbName := driverConfig.MongoDB.DbName
		reservationStore = bookings.NewBookingMongoRepository(client, dbName)
		doctorRepository = doctors.NewDoctorMongoRepository(client, dbName)
		patientRepository = patients.NewPatientMongoRepository(client, dbName)
	case constvars.StorageDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, driverConfig)
		if err != nil {
			return err
		}
		bootstrap.PostgresDB = pool
		reservationStore = bookings.NewBookingPostgresRepository(pool)
		doctorRepository = doctors.NewDoctorPostgresRepository(pool)
		patientRepository = patients.NewPatientPostgresRepository(pool)
	case constvars.StorageDriverMemory:
		store := memstore.New(time.Now)
		reservationStore = store
		doctorRepository = store.Doctors()
		patientRepository = store.Patients()
	default:
		return fmt.Errorf("unknown storage driver %q", internalConfig.Storage.Driver)
	}
	log.Info("Storage ready", zap.String("driver", internalConfig.Storage.Driver))

	// Payment gateway
	var gateway contracts.PaymentGatewayService
	switch internalConfig.Booking.PaymentGateway {
	case constvars.PaymentGatewayOmise:
		client, err := payment.NewOmiseClient(driverConfig)
		if err != nil {
			return err
		}
		gateway = paymentGateway.NewOmiseService(client, log)
	case constvars.PaymentGatewaySandbox:
		gateway = paymentGateway.NewSandboxService(log)
	default:
		return fmt.Errorf("unknown payment gateway %q", internalConfig.Booking.PaymentGateway)
	}
	if redisRepo != nil {
		gateway = paymentGateway.NewIdempotentGateway(gateway, redisRepo, log)
	}

	// Supporting services
	reconciliationSink := reconciliation.NewReconciliationSink(reconciliationPublisher, log)
	priceResolver := pricing.NewPriceResolver(
		doctorRepository,
		redisRepo,
		internalConfig.Booking.DefaultFee,
		time.Duration(internalConfig.Booking.PriceCacheTTLInMinutes)*time.Minute,
		log,
	)
	patientProfileService := patients.NewPatientProfileService(
		patientRepository,
		avatarStore,
		log,
	)

	// Appointments
	appointmentUsecase := appointments.NewAppointmentUsecase(
		reservationStore,
		gateway,
		priceResolver,
		patientProfileService,
		eventPublisher,
		reconciliationSink,
		internalConfig,
		log,
	)
	lifecycleSweeper := appointments.NewLifecycleSweeper(
		reservationStore,
		gateway,
		eventPublisher,
		reconciliationSink,
		internalConfig,
		log,
	)

	if redisRepo != nil {
		worker := appointments.NewWorker(log, internalConfig, locker.NewLockService(redisRepo, log), lifecycleSweeper)
		worker.Start(context.Background())
		bootstrap.WorkerStop = worker.Stop
	} else {
		log.Warn("Lifecycle worker disabled, sweeps only run through the internal endpoint")
	}

	// Delivery
	appointmentController := controllers.NewAppointmentController(log, appointmentUsecase)
	lifecycleController := controllers.NewLifecycleController(log, lifecycleSweeper)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewares.NewMiddlewares(log, internalConfig),
		appointmentController,
		lifecycleController,
	)
	return nil
}
