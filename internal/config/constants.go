package config

const (
	// DefaultDatabasePath is the default path for the records database
	DefaultDatabasePath = "./registrar.db"

	// DefaultEnvFile is loaded into the environment on startup when present
	DefaultEnvFile = ".env"
)
