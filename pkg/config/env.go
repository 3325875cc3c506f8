package config

const (
	EnvPrefix = "WASHDAY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "WASHDAY_APP_ENV"
	EnvPort     = "WASHDAY_APP_PORT"
	EnvLogLevel = "WASHDAY_LOG_LEVEL"

	EnvDBDSN  = "WASHDAY_DB_DSN"
	EnvDBHost = "WASHDAY_DB_HOST"
	EnvDBUser = "WASHDAY_DB_USER"
	EnvDBName = "WASHDAY_DB_NAME"

	EnvRedisURL = "WASHDAY_REDIS_URL"

	EnvJWTSecret              = "WASHDAY_JWT_SECRET"
	EnvJWTIssuer              = "WASHDAY_JWT_ISSUER"
	EnvJWTExpMins             = "WASHDAY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "WASHDAY_REFRESH_TOKEN_TTL_MINUTES"

	EnvPricingRate    = "WASHDAY_PRICING_RATE_PER_POUND"
	EnvPricingMinimum = "WASHDAY_PRICING_MINIMUM_CHARGE"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
