package config

// EnvPrefix scopes every environment variable read by envconfig.
const EnvPrefix = "STORECRAFT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "STORECRAFT_APP_ENV"
	EnvPort      = "STORECRAFT_APP_PORT"
	EnvDBDSN     = "STORECRAFT_DB_DSN"
	EnvDBHost    = "STORECRAFT_DB_HOST"
	EnvDBUser    = "STORECRAFT_DB_USER"
	EnvDBName    = "STORECRAFT_DB_NAME"
	EnvRedisURL  = "STORECRAFT_REDIS_URL"
	EnvJWTSecret = "STORECRAFT_JWT_SECRET"
	EnvJWTIssuer = "STORECRAFT_JWT_ISSUER"
	EnvJWTAud    = "STORECRAFT_JWT_AUDIENCE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
