package internal

import (
	"encoding/json"
	"log"
	"os"
	"sync/atomic"

	"github.com/haltia/conveyor/internal/util"
)

// config is swapped atomically: run queues read it mid-run while the config
// endpoint replaces it.
var config atomic.Pointer[Configuration]

type Configuration struct {
	QueueSize int64 `json:"queue_size"`
	// StrictArtifacts turns the best-effort archive/publish steps into hard
	// failures when their glob matches nothing.
	StrictArtifacts bool `json:"strict_artifacts"`
}

func GetConfiguration() *Configuration {
	return config.Load()
}

func SetConfiguration(c *Configuration) {
	config.Store(c)
}

func InitializeConfiguration() {
	conf := &Configuration{
		QueueSize:       3,
		StrictArtifacts: false,
	}

	configFileExists, _ := util.PathExists("config.json")
	if !configFileExists {
		b, err := json.MarshalIndent(conf, "", "    ")
		if err != nil {
			log.Fatal(err)
		}
		configFile, err := os.Create("config.json")
		if err != nil {
			log.Fatal(err)
		}
		if _, err := configFile.Write(b); err != nil {
			log.Fatal(err)
		}
	} else {
		configBytes, err := os.ReadFile("config.json")
		if err != nil {
			log.Fatal(err)
		}
		if err := json.Unmarshal(configBytes, conf); err != nil {
			log.Fatal(err)
		}
	}

	config.Store(conf)
}

func UpdateConfiguration(conf *Configuration) error {
	b, err := json.MarshalIndent(conf, "", "    ")
	if err != nil {
		return err
	}

	configFile, err := os.Create("config.json")
	if err != nil {
		return err
	}

	if _, err := configFile.Write(b); err != nil {
		return err
	}

	config.Store(conf)

	return nil
}
