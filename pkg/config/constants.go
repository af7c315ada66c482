package config

// EnvPrefix scopes every environment variable consumed by the service.
const EnvPrefix = "FEASTLY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "FEASTLY_APP_ENV"
	EnvPort       = "FEASTLY_APP_PORT"
	EnvDBDSN      = "FEASTLY_DB_DSN"
	EnvDBHost     = "FEASTLY_DB_HOST"
	EnvDBUser     = "FEASTLY_DB_USER"
	EnvDBName     = "FEASTLY_DB_NAME"
	EnvRedisURL   = "FEASTLY_REDIS_URL"
	EnvJWTSecret  = "FEASTLY_JWT_SECRET"
	EnvJWTIssuer  = "FEASTLY_JWT_ISSUER"
	EnvJWTExpMins = "FEASTLY_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
