package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of a config file. The same struct serves
// JSON and YAML.
type fileConfig struct {
	Storage struct {
		Backend string `json:"backend" yaml:"backend"`
		Path    string `json:"path" yaml:"path"`
	} `json:"storage" yaml:"storage"`

	Log struct {
		Level string `json:"level" yaml:"level"`
		File  string `json:"file" yaml:"file"`
	} `json:"log" yaml:"log"`

	Session struct {
		IdleTimeout  Duration `json:"idle_timeout" yaml:"idle_timeout"`
		PollInterval Duration `json:"poll_interval" yaml:"poll_interval"`
	} `json:"session" yaml:"session"`

	Generator struct {
		Length  int    `json:"length" yaml:"length"`
		Classes string `json:"classes" yaml:"classes"`
	} `json:"generator" yaml:"generator"`
}

func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return &StructuredConfig{
		Storage: Storage{
			Backend: fc.Storage.Backend,
			Path:    fc.Storage.Path,
		},
		Log: Log{
			Level: fc.Log.Level,
			File:  fc.Log.File,
		},
		Session: Session{
			IdleTimeout:  time.Duration(fc.Session.IdleTimeout),
			PollInterval: time.Duration(fc.Session.PollInterval),
		},
		Generator: Generator{
			Length:  fc.Generator.Length,
			Classes: fc.Generator.Classes,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "5m" or "10s" in both JSON and YAML. Bare JSON numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
