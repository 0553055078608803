package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Region is the location of the buckets (e.g., us-east-1).
	Region string `mapstructure:"region" default:"us-east-1"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ListRetries is how many times a failed listing page is retried before giving up.
	ListRetries int `mapstructure:"list_retries" default:"3"`
	// ListRetryBackoffMs is the base delay between listing retries, multiplied by the attempt number.
	ListRetryBackoffMs int `mapstructure:"list_retry_backoff_ms" default:"500"`
	// PageSize is the number of keys requested per listing page (0 = provider default).
	PageSize int `mapstructure:"page_size" default:"1000"`
}
