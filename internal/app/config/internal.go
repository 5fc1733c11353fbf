package config

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	JWT      AppJWT      `mapstructure:"jwt"`
	Booking  Booking     `mapstructure:"booking"`
	Sweeper  Sweeper     `mapstructure:"sweeper"`
	Storage  Storage     `mapstructure:"storage"`
	RabbitMQ AppRabbitMQ `mapstructure:"rabbitmq"`
	Minio    AppMinio    `mapstructure:"minio"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Address                    string `mapstructure:"address"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	MaxTimeRequestsPerSeconds  int    `mapstructure:"max_time_requests_per_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	AllowedOrigins             string `mapstructure:"allowed_origins"`
}

type AppJWT struct {
	Secret string `mapstructure:"secret"`
}

type Booking struct {
	DefaultFee              int64  `mapstructure:"default_fee"`
	Currency                string `mapstructure:"currency"`
	LockTTLInMinutes        int    `mapstructure:"lock_ttl_in_minutes"`
	GatewayTimeoutInSeconds int    `mapstructure:"gateway_timeout_in_seconds"`
	DefaultPriority         string `mapstructure:"default_priority"`
	DefaultReason           string `mapstructure:"default_reason"`
	PriceCacheTTLInMinutes  int    `mapstructure:"price_cache_ttl_in_minutes"`
	// PaymentGateway is "omise" or "sandbox".
	PaymentGateway string `mapstructure:"payment_gateway"`
}

type Sweeper struct {
	CronSpec                      string  `mapstructure:"cron_spec"`
	NoShowThresholdInMinutes      int     `mapstructure:"no_show_threshold_in_minutes"`
	DoctorFaultThresholdInMinutes int     `mapstructure:"doctor_fault_threshold_in_minutes"`
	RefundsPerSecond              float64 `mapstructure:"refunds_per_second"`
	SharedSecret                  string  `mapstructure:"shared_secret"`
	LeaderLockTTLInSeconds        int     `mapstructure:"leader_lock_ttl_in_seconds"`
}

type Storage struct {
	// Driver is one of mongo, postgres or memory.
	Driver string `mapstructure:"driver"`
}

type AppRabbitMQ struct {
	EventsExchange      string `mapstructure:"events_exchange"`
	ReconciliationQueue string `mapstructure:"reconciliation_queue"`
}

type AppMinio struct {
	AvatarBucketName             string `mapstructure:"avatar_bucket_name"`
	AvatarURLExpiryTimeInMinutes int    `mapstructure:"avatar_url_expiry_time_in_minutes"`
}
