package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SeedCategory struct {
	Name string `yaml:"name"`
}

type SeedProduct struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Category    string `yaml:"category"`
}

type SeedConfig struct {
	Categories []SeedCategory `yaml:"categories"`
	Products   []SeedProduct  `yaml:"products"`
}

// yaml path : docs/seed.yaml
func LoadSeedConfig(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &SeedConfig{}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
