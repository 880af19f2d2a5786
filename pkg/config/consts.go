package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "SECONDMART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SECONDMART_DB_DSN"
	EnvDBHost = "SECONDMART_DB_HOST"
	EnvDBUser = "SECONDMART_DB_USER"
	EnvDBName = "SECONDMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
