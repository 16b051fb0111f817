package config

// EnvPrefix is empty because every variable carries the LIMS_ prefix in its tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LIMS_DB_DSN"
	EnvDBHost = "LIMS_DB_HOST"
	EnvDBUser = "LIMS_DB_USER"
	EnvDBName = "LIMS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
