package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "hive"

	// ConfigFileName is the default config file name
	ConfigFileName = "hive.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "HIVE"
)
