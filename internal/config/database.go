// internal/config/database.go
package config

import (
	"fmt"
)

// DSN returns the connection string for the configured driver. For sqlite the
// database name is used as the file path (":memory:" is accepted).
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
