package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every environment override, e.g. MEDBOOK_DATABASE_HOST.
	EnvPrefix = "MEDBOOK"

	ServiceName = "medbook_backend"
)
