package master

// Config - config for all master controllers.
type Config struct {
	Harvester struct {
		// TimeoutOneShopSync - timeout for syncing one shop's trailing window
		TimeoutOneShopSync string `yaml:"timeoutOneShopSync"`

		// IntervalPeriodicHarvest - harvest interval
		IntervalPeriodicHarvest string `yaml:"intervalPeriodicHarvest"`

		// LookbackDays - how many trailing days each harvest re-syncs
		LookbackDays int `yaml:"lookbackDays"`

		// CntWorkers - cnt of workers
		CntWorkers int `yaml:"cntWorkers"`
	} `yaml:"harvester"`
}
