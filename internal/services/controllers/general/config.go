package general

// Config - config for all general controllers.
type Config struct {
	Monitor struct {
		// TimeoutConsulLeaderCheck - how often to re-check leadership via consul kv
		// (and try to take it over when there is no leader).
		TimeoutConsulLeaderCheck string `yaml:"timeoutConsulLeaderCheck"`
	} `yaml:"monitor"`
}
