package config

const (
	EnvPrefix = "PAWMATCH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PAWMATCH_DB_DSN"
	EnvDBHost = "PAWMATCH_DB_HOST"
	EnvDBUser = "PAWMATCH_DB_USER"
	EnvDBName = "PAWMATCH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
