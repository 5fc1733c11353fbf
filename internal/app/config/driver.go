package config

type (
	DriverConfig struct {
		MongoDB    MongoDB
		PostgresDB PostgresDB
		Redis      Redis
		Logger     Logger
		RabbitMQ   RabbitMQ
		Minio      Minio
		Omise      Omise
		Telemetry  Telemetry
	}
	MongoDB struct {
		Port       string
		Host       string
		Username   string
		Password   string
		DbName     string
		ReplicaSet string
	}
	PostgresDB struct {
		Host     string
		Port     string
		Username string
		Password string
		DbName   string
		SslMode  string
		MaxConns int
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
		PoolSize int
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port        string
		Host        string
		Username    string
		Password    string
		VirtualHost string
	}
	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		Region   string
		UseSSL   bool
	}
	Omise struct {
		PublicKey string
		SecretKey string
	}
	// Telemetry is disabled when OtlpEndpoint is empty.
	Telemetry struct {
		ServiceName  string
		OtlpEndpoint string
		Insecure     bool
	}
)
