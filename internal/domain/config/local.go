package config

// LocalConfig represents the per-checkout starknet-deploy settings
type LocalConfig struct {
	Network string `json:"network,omitempty"`
	Account int    `json:"account"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
	ConfigKeyAccount ConfigKey = "account"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}
