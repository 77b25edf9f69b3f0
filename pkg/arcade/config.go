package arcade

import "fmt"

// Config contains ArcadeDB connection settings.
type Config struct {
	Host           string `env:"ARCADE_DB_HOST" env-default:"localhost"`
	Port           uint16 `env:"ARCADE_DB_PORT" env-default:"2480"`
	User           string `env:"ARCADE_DB_USER" env-default:"root"`
	Password       string `env:"ARCADE_DB_PASSWORD" env-default:""`
	Database       string `env:"ARCADE_DB_NAME" env-default:"cynnycty"`
	TimeoutSeconds int    `env:"ARCADE_DB_TIMEOUT_SECONDS" env-default:"10"`
	RetryMax       int    `env:"ARCADE_DB_RETRY_MAX" env-default:"2"`
}

// BaseURL returns the server root, e.g. http://localhost:2480.
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}
