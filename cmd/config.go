package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	// DBAutoMigrate creates the backend tables on startup. Meant for local
	// runs against an empty database.
	DBAutoMigrate bool

	KafkaHost              string
	KafkaConsumerGroup     string
	KafkaOfferTopic        string
	KafkaOfferOutcomeTopic string

	BatchOfferTimeoutSeconds int
	OrderOfferTimeoutSeconds int

	HubGridCenterLat float64
	HubGridCenterLng float64

	LogLevel string
}

// KafkaEnabled reports whether a broker is configured. Without one the engine
// takes offers over HTTP only and publishes events to websockets only.
func (c Config) KafkaEnabled() bool {
	return c.KafkaHost != ""
}
