package config

import (
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:       utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:       utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:     utils.GetEnvString("MONGODB_DB_NAME", "mediconnect"),
			Username:   utils.GetEnvString("MONGODB_USERNAME", ""),
			Password:   utils.GetEnvString("MONGODB_PASSWORD", ""),
			ReplicaSet: utils.GetEnvString("MONGODB_REPLICA_SET", "rs0"),
		},
		PostgresDB: PostgresDB{
			Host:     utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:     utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username: utils.GetEnvString("POSTGRES_USERNAME", "postgres"),
			Password: utils.GetEnvString("POSTGRES_PASSWORD", "postgres"),
			DbName:   utils.GetEnvString("POSTGRES_DB_NAME", "mediconnect"),
			SslMode:  utils.GetEnvString("POSTGRES_SSL_MODE", "disable"),
			MaxConns: utils.GetEnvInt("POSTGRES_MAX_CONNS", 10),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
			PoolSize: utils.GetEnvInt("REDIS_POOL_SIZE", 10),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:        utils.GetEnvString("RABBITMQ_PORT", ""),
			Host:        utils.GetEnvString("RABBITMQ_HOST", ""),
			Username:    utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password:    utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
			VirtualHost: utils.GetEnvString("RABBITMQ_VIRTUAL_HOST", "/"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", ""),
			Host:     utils.GetEnvString("MINIO_HOST", ""),
			Username: utils.GetEnvString("MINIO_USERNAME", ""),
			Password: utils.GetEnvString("MINIO_PASSWORD", ""),
			Region:   utils.GetEnvString("MINIO_REGION", ""),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Omise: Omise{
			PublicKey: utils.GetEnvString("OMISE_PUBLIC_KEY", ""),
			SecretKey: utils.GetEnvString("OMISE_SECRET_KEY", ""),
		},
		Telemetry: Telemetry{
			ServiceName:  utils.GetEnvString("OTEL_SERVICE_NAME", "mediconnect-service"),
			OtlpEndpoint: utils.GetEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:     utils.GetEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "0.0.0.0"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 1),
			AllowedOrigins:             utils.GetEnvString("APP_ALLOWED_ORIGINS", "*"),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Booking: Booking{
			DefaultFee:              utils.GetEnvInt64("BOOKING_DEFAULT_FEE", 5000),
			Currency:                utils.GetEnvString("BOOKING_CURRENCY", "usd"),
			LockTTLInMinutes:        utils.GetEnvInt("BOOKING_LOCK_TTL_IN_MINUTES", 15),
			GatewayTimeoutInSeconds: utils.GetEnvInt("BOOKING_GATEWAY_TIMEOUT_IN_SECONDS", 10),
			DefaultPriority:         utils.GetEnvString("BOOKING_DEFAULT_PRIORITY", "Low"),
			DefaultReason:           utils.GetEnvString("BOOKING_DEFAULT_REASON", "General Checkup"),
			PriceCacheTTLInMinutes:  utils.GetEnvInt("BOOKING_PRICE_CACHE_TTL_IN_MINUTES", 10),
			PaymentGateway:          utils.GetEnvString("BOOKING_PAYMENT_GATEWAY", constvars.PaymentGatewayOmise),
		},
		Sweeper: Sweeper{
			CronSpec:                      utils.GetEnvString("SWEEPER_CRON_SPEC", "@every 1m"),
			NoShowThresholdInMinutes:      utils.GetEnvInt("SWEEPER_NO_SHOW_THRESHOLD_IN_MINUTES", 10),
			DoctorFaultThresholdInMinutes: utils.GetEnvInt("SWEEPER_DOCTOR_FAULT_THRESHOLD_IN_MINUTES", 30),
			RefundsPerSecond:              utils.GetEnvFloat("SWEEPER_REFUNDS_PER_SECOND", 5),
			SharedSecret:                  utils.GetEnvString("SWEEPER_SHARED_SECRET", ""),
			LeaderLockTTLInSeconds:        utils.GetEnvInt("SWEEPER_LEADER_LOCK_TTL_IN_SECONDS", 120),
		},
		Storage: Storage{
			Driver: utils.GetEnvString("STORAGE_DRIVER", constvars.StorageDriverMongo),
		},
		RabbitMQ: AppRabbitMQ{
			EventsExchange:      utils.GetEnvString("RABBITMQ_EVENTS_EXCHANGE", "mediconnect.appointments"),
			ReconciliationQueue: utils.GetEnvString("RABBITMQ_RECONCILIATION_QUEUE", constvars.ReconciliationQueueName),
		},
		Minio: AppMinio{
			AvatarBucketName:             utils.GetEnvString("MINIO_AVATAR_BUCKET_NAME", "avatars"),
			AvatarURLExpiryTimeInMinutes: utils.GetEnvInt("MINIO_AVATAR_URL_EXPIRY_TIME_IN_MINUTES", 60),
		},
	}
}
