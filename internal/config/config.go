package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Company struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

type CompanySource struct {
	Enabled   bool      `yaml:"enabled"`
	Companies []Company `yaml:"companies"`
}

type QuerySource struct {
	Enabled bool     `yaml:"enabled"`
	Queries []string `yaml:"queries"`
	Pages   int      `yaml:"pages"`
}

type Config struct {
	Filters struct {
		TargetRoles        []string `yaml:"target_roles"`
		USALocations       []string `yaml:"usa_locations"`
		C2CKeywords        []string `yaml:"c2c_keywords"`
		FullTimeExclusions []string `yaml:"fulltime_exclusions"`
	} `yaml:"filters"`

	Scrape struct {
		Workers        int     `yaml:"workers"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		HostRateLimit  float64 `yaml:"host_rate_limit"`
		HostRateBurst  int     `yaml:"host_rate_burst"`
		SourceTimeoutM int     `yaml:"source_timeout_minutes"`
	} `yaml:"scrape"`

	Sources struct {
		Greenhouse   CompanySource `yaml:"greenhouse"`
		Lever        CompanySource `yaml:"lever"`
		Indeed       QuerySource   `yaml:"indeed"`
		LinkedIn     QuerySource   `yaml:"linkedin"`
		Dice         QuerySource   `yaml:"dice"`
		ZipRecruiter QuerySource   `yaml:"ziprecruiter"`
		RemoteOK     struct {
			Enabled bool     `yaml:"enabled"`
			Tags    []string `yaml:"tags"`
		} `yaml:"remoteok"`
	} `yaml:"sources"`

	Export struct {
		OutputDir        string `yaml:"output_dir"`
		FilenameTemplate string `yaml:"filename_template"`
	} `yaml:"export"`

	Upload struct {
		Enabled    bool     `yaml:"enabled"`
		TargetUser string   `yaml:"target_user"`
		Recipients []string `yaml:"recipients"`
	} `yaml:"upload"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
