package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"campusledger/core/types"
	"campusledger/native/fees"
)

// GenesisProvider seeds a service provider at first boot.
type GenesisProvider struct {
	Address  string `toml:"Address"`
	Name     string `toml:"Name"`
	Category string `toml:"Category"`
}

// Config carries everything the node needs at startup. The administrator and
// university payee identities are fixed here; no component reads them from
// ambient globals.
type Config struct {
	ListenAddress     string            `toml:"ListenAddress"`
	DataDir           string            `toml:"DataDir"`
	CampusName        string            `toml:"CampusName"`
	Env               string            `toml:"Env"`
	LogFile           string            `toml:"LogFile"`
	AdminAddress      string            `toml:"AdminAddress"`
	UniversityAddress string            `toml:"UniversityAddress"`
	GenesisFeeBps     uint32            `toml:"GenesisFeeBps"`
	GenesisStudents   []string          `toml:"GenesisStudents"`
	GenesisProviders  []GenesisProvider `toml:"GenesisProviders"`
}

// Load loads the configuration from the given path, writing a commented
// default file when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress: ":8645",
		DataDir:       "./campusdata",
		CampusName:    "campus-devnet",
		Env:           "dev",
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks addresses and policy bounds before the node boots.
func (c *Config) Validate() error {
	if _, err := types.ParseAddress(c.AdminAddress); err != nil {
		return fmt.Errorf("config: AdminAddress: %w", err)
	}
	if _, err := types.ParseAddress(c.UniversityAddress); err != nil {
		return fmt.Errorf("config: UniversityAddress: %w", err)
	}
	if c.GenesisFeeBps > fees.MaxBps {
		return fmt.Errorf("config: GenesisFeeBps %d above maximum %d", c.GenesisFeeBps, fees.MaxBps)
	}
	for i, raw := range c.GenesisStudents {
		if _, err := types.ParseAddress(raw); err != nil {
			return fmt.Errorf("config: GenesisStudents[%d]: %w", i, err)
		}
	}
	for i, provider := range c.GenesisProviders {
		if _, err := types.ParseAddress(provider.Address); err != nil {
			return fmt.Errorf("config: GenesisProviders[%d]: %w", i, err)
		}
		if provider.Name == "" {
			return fmt.Errorf("config: GenesisProviders[%d]: name required", i)
		}
	}
	return nil
}

// Admin returns the parsed administrator address. Validate must have passed.
func (c *Config) Admin() [20]byte {
	addr, _ := types.ParseAddress(c.AdminAddress)
	return addr
}

// University returns the parsed university payee address.
func (c *Config) University() [20]byte {
	addr, _ := types.ParseAddress(c.UniversityAddress)
	return addr
}
