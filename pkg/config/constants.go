package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without a tag.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv           = "STOREFRONT_APP_ENV"
	EnvPort             = "STOREFRONT_APP_PORT"
	EnvLogLevel         = "STOREFRONT_LOG_LEVEL"
	EnvCatalogBaseURL   = "STOREFRONT_CATALOG_BASE_URL"
	EnvOrdersSubmitURL  = "STOREFRONT_ORDERS_SUBMIT_URL"
	EnvRedisURL         = "STOREFRONT_REDIS_URL"
	EnvCORSOrigins      = "STOREFRONT_CORS_ORIGINS"
	EnvExpiryYearWindow = "STOREFRONT_EXPIRY_YEAR_WINDOW"
)
