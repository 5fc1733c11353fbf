package messaging

import (
	"fmt"
	"mediconnect-service/internal/app/config"
	"strconv"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const heartbeat = 10 * time.Second

// NewRabbitMQ dials the broker and tags the connection with the service name
// so it is identifiable in the management UI.
func NewRabbitMQ(driverConfig *config.DriverConfig) (*amqp091.Connection, error) {
	uri := amqp091.URI{
		Scheme:   "amqp",
		Host:     driverConfig.RabbitMQ.Host,
		Username: driverConfig.RabbitMQ.Username,
		Password: driverConfig.RabbitMQ.Password,
		Vhost:    driverConfig.RabbitMQ.VirtualHost,
		Port:     5672,
	}
	if driverConfig.RabbitMQ.Port != "" {
		port, err := strconv.Atoi(driverConfig.RabbitMQ.Port)
		if err != nil {
			return nil, fmt.Errorf("invalid rabbitmq port %q: %w", driverConfig.RabbitMQ.Port, err)
		}
		uri.Port = port
	}

	properties := amqp091.NewConnectionProperties()
	properties.SetClientConnectionName(driverConfig.Telemetry.ServiceName)

	conn, err := amqp091.DialConfig(uri.String(), amqp091.Config{
		Heartbeat:  heartbeat,
		Properties: properties,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return conn, nil
}
