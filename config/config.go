package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Award  AwardConfig  `yaml:"award"`
	Cash   CashConfig   `yaml:"cash"`
	Maps   MapsConfig   `yaml:"maps"`
	Audit  AuditConfig  `yaml:"audit"`
}

// SearchConfig holds the orchestrator knobs.
type SearchConfig struct {
	Timeout         time.Duration `yaml:"timeout" env:"SEARCH_TIMEOUT" env-default:"30s"`
	StandardLimit   int           `yaml:"standard_limit" env:"SEARCH_STANDARD_LIMIT" env-default:"5"`
	FlexibleLimit   int           `yaml:"flexible_limit" env:"SEARCH_FLEXIBLE_LIMIT" env-default:"15"`
	FlexibilityDays int           `yaml:"flexibility_days" env:"SEARCH_FLEXIBILITY_DAYS" env-default:"3"`
	// MajorHubs drives the alternate-airport heuristic: when the origin is
	// one of these, the destination is assumed to be the constrained endpoint.
	MajorHubs     []string `yaml:"major_hubs" env:"SEARCH_MAJOR_HUBS" env-default:"ATL,ORD,DFW,DEN,JFK,LAX,SFO,LHR,FRA,CDG,AMS,IST,DXB,SIN,HND,NRT,ICN,PEK"`
	ProviderRate  float64  `yaml:"provider_rate" env:"SEARCH_PROVIDER_RATE" env-default:"5"`
	ProviderBurst int      `yaml:"provider_burst" env:"SEARCH_PROVIDER_BURST" env-default:"10"`
}

// AwardConfig configures the award-inventory provider.
type AwardConfig struct {
	BaseURL string `yaml:"base_url" env:"AWARD_BASE_URL" env-default:"https://api.awardstock.io"`
	APIKey  string `yaml:"api_key" env:"AWARD_API_KEY"`
}

// CashConfig configures the cash-fare provider.
type CashConfig struct {
	ClientID     string `yaml:"client_id" env:"CASH_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"CASH_CLIENT_SECRET"`
	Production   bool   `yaml:"production" env:"CASH_PRODUCTION" env-default:"false"`
}

// MapsConfig configures the Google Maps client used for drive-time labels
// on alternative airports. Optional; static labels are used without it.
type MapsConfig struct {
	APIKey string `yaml:"api_key" env:"MAPS_API_KEY"`
}

// AuditConfig configures the tool-call audit store.
type AuditConfig struct {
	DBPath string `yaml:"db_path" env:"AUDIT_DB_PATH" env-default:"awardsearch.db"`
}

// Load reads configuration from config.yaml and environment variables.
// Priority: Env Vars > Config File > Defaults.
func Load() (*Config, error) {
	var cfg Config

	// Fall back to env-only when no config file is present.
	if err := cleanenv.ReadConfig("config.yaml", &cfg); err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	return &cfg, nil
}
