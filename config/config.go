package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Token    string `toml:"token" mapstructure:"token"`
	Host     string `toml:"host" mapstructure:"host"`
	Port     string `toml:"port" mapstructure:"port"`
	Libonnx  string `toml:"libonnx" mapstructure:"libonnx"`
	LogLevel string `toml:"log_level" mapstructure:"log_level"`

	// Sessions is the number of inference sessions kept open. 1 serializes inference.
	Sessions int `toml:"sessions" mapstructure:"sessions"`
	TopK     int `toml:"top_k" mapstructure:"top_k"`

	ModelUrl       string `toml:"model_url" mapstructure:"model_url"`
	ModelDir       string `toml:"model_dir" mapstructure:"model_dir"`
	ModelFileName  string `toml:"model_file_name" mapstructure:"model_file_name"`
	LabelsFileName string `toml:"labels_file_name" mapstructure:"labels_file_name"`
}

func Default() Config {
	return Config{
		Token:          "",
		Host:           "0.0.0.0",
		Port:           "8000",
		LogLevel:       "info",
		Sessions:       1,
		TopK:           3,
		ModelUrl:       "",
		ModelDir:       "models",
		ModelFileName:  "plant_recognition.onnx",
		LabelsFileName: "labels.txt",
	}
}

var (
	cfg      = Default()
	path     = "config.toml"
	loadOnce sync.Once
)

// SetPath changes the file C reads. It has no effect once C has been called.
func SetPath(p string) {
	path = p
}

// Load reads a TOML file on top of the defaults. A missing file is not an error.
func Load(p string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("failed to read config %s: %w", p, err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", p, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Sessions < 1 {
		return fmt.Errorf("sessions must be at least 1, got %d", c.Sessions)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.ModelFileName == "" || c.LabelsFileName == "" {
		return fmt.Errorf("model_file_name and labels_file_name are required")
	}
	return nil
}

func C() Config {
	loadOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			panic(err)
		}
		cfg = c
	})
	return cfg
}
