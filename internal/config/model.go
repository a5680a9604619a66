package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelConfig describes a multibody model as a list of bodies. Each body
// names the joint that attaches it to its parent. The ground body is
// implicit.
type ModelConfig struct {
	Name   string       `yaml:"name"`
	Bodies []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Name       string       `yaml:"name"`
	Mass       float64      `yaml:"mass"`
	MassCenter [3]float64   `yaml:"mass_center,flow"`
	Inertia    [3]float64   `yaml:"inertia,flow"`
	Joint      *JointConfig `yaml:"joint,omitempty"`
}

type JointConfig struct {
	Name             string     `yaml:"name"`
	Type             string     `yaml:"type"`
	Parent           string     `yaml:"parent"`
	LocationInParent [3]float64 `yaml:"location_in_parent,flow"`
	LocationInChild  [3]float64 `yaml:"location_in_child,flow"`
}

func LoadModel(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseModel(data)
}

func ParseModel(data []byte) (*ModelConfig, error) {
	var mc ModelConfig
	if err := yaml.Unmarshal(data, &mc); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	for i := range mc.Bodies {
		if mc.Bodies[i].Mass == 0 {
			mc.Bodies[i].Mass = DefaultMass
		}
	}
	return &mc, nil
}

func SaveModel(path string, mc *ModelConfig) error {
	data, err := yaml.Marshal(mc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
