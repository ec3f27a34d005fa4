package internal

const (
	DotEnvPath        = "./.env"
	RunDirLayout      = "20060102_150405000"
	DBTimestampLayout = "2006-01-02 15:04:05.999"
	APIKeyHeader      = "X-Conveyor-API-Key"
)
