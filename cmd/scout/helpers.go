package main

import (
	"time"

	"c2cscout/internal/classify"
	"c2cscout/internal/config"
	"c2cscout/internal/scrape/dice"
	"c2cscout/internal/scrape/greenhouse"
	"c2cscout/internal/scrape/indeed"
	"c2cscout/internal/scrape/lever"
	"c2cscout/internal/scrape/linkedin"
	"c2cscout/internal/scrape/remoteok"
	"c2cscout/internal/scrape/types"
	"c2cscout/internal/scrape/util"
	"c2cscout/internal/scrape/ziprecruiter"
)

// buildFetchers assembles one adapter per enabled source. A nil selected
// set means every enabled source runs; otherwise only the named subset.
func buildFetchers(cfg config.Config, selected map[string]bool) ([]types.Fetcher, *classify.Classifier, *util.HostLimiter) {
	cls := classify.New(classify.Keywords{
		TargetRoles:        cfg.Filters.TargetRoles,
		USALocations:       cfg.Filters.USALocations,
		C2C:                cfg.Filters.C2CKeywords,
		FullTimeExclusions: cfg.Filters.FullTimeExclusions,
	})
	limiter := util.NewHostLimiter(cfg.Scrape.HostRateLimit, cfg.Scrape.HostRateBurst)

	workers := cfg.Scrape.Workers
	timeout := time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second

	want := func(name string) bool {
		return selected == nil || selected[name]
	}

	var fetchers []types.Fetcher

	if cfg.Sources.Greenhouse.Enabled && want("greenhouse") {
		fetchers = append(fetchers, greenhouse.New(greenhouse.Config{
			Companies: ghCompanies(cfg.Sources.Greenhouse.Companies),
			Workers:   workers,
			Timeout:   timeout,
		}, cls, limiter))
	}
	if cfg.Sources.Lever.Enabled && want("lever") {
		fetchers = append(fetchers, lever.New(lever.Config{
			Companies: leverCompanies(cfg.Sources.Lever.Companies),
			Workers:   workers,
			Timeout:   timeout,
		}, cls, limiter))
	}
	if cfg.Sources.Indeed.Enabled && want("indeed") {
		fetchers = append(fetchers, indeed.New(indeed.Config{
			Queries: cfg.Sources.Indeed.Queries,
			Pages:   cfg.Sources.Indeed.Pages,
			Workers: workers,
			Timeout: timeout,
		}, limiter))
	}
	if cfg.Sources.LinkedIn.Enabled && want("linkedin") {
		fetchers = append(fetchers, linkedin.New(linkedin.Config{
			Queries: cfg.Sources.LinkedIn.Queries,
			Pages:   cfg.Sources.LinkedIn.Pages,
			Workers: workers,
			Timeout: timeout,
		}, limiter))
	}
	if cfg.Sources.Dice.Enabled && want("dice") {
		fetchers = append(fetchers, dice.New(dice.Config{
			Queries: cfg.Sources.Dice.Queries,
			Pages:   cfg.Sources.Dice.Pages,
			Workers: workers,
			Timeout: timeout,
		}, cls, limiter))
	}
	if cfg.Sources.ZipRecruiter.Enabled && want("ziprecruiter") {
		fetchers = append(fetchers, ziprecruiter.New(ziprecruiter.Config{
			Queries: cfg.Sources.ZipRecruiter.Queries,
			Pages:   cfg.Sources.ZipRecruiter.Pages,
			Workers: workers,
			Timeout: timeout,
		}, limiter))
	}
	if cfg.Sources.RemoteOK.Enabled && want("remoteok") {
		fetchers = append(fetchers, remoteok.New(remoteok.Config{
			Tags:    cfg.Sources.RemoteOK.Tags,
			Workers: workers,
			Timeout: timeout,
		}, limiter))
	}

	return fetchers, cls, limiter
}

func ghCompanies(in []config.Company) []greenhouse.Company {
	out := make([]greenhouse.Company, len(in))
	for i, c := range in {
		out[i] = greenhouse.Company{Slug: c.Slug, Name: c.Name}
	}
	return out
}

func leverCompanies(in []config.Company) []lever.Company {
	out := make([]lever.Company, len(in))
	for i, c := range in {
		out[i] = lever.Company{Slug: c.Slug, Name: c.Name}
	}
	return out
}
