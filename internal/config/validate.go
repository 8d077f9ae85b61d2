package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy: keyword and query lists
// trimmed and deduplicated, zero-valued knobs filled with defaults, plus
// any validation findings.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.TargetRoles = trimList(out.Filters.TargetRoles)
	out.Filters.USALocations = trimList(out.Filters.USALocations)
	out.Filters.C2CKeywords = trimList(out.Filters.C2CKeywords)
	out.Filters.FullTimeExclusions = trimList(out.Filters.FullTimeExclusions)
	out.Sources.Indeed.Queries = trimList(out.Sources.Indeed.Queries)
	out.Sources.LinkedIn.Queries = trimList(out.Sources.LinkedIn.Queries)
	out.Sources.Dice.Queries = trimList(out.Sources.Dice.Queries)
	out.Sources.ZipRecruiter.Queries = trimList(out.Sources.ZipRecruiter.Queries)

	// knob defaults
	if out.Scrape.Workers <= 0 {
		out.Scrape.Workers = 8
	}
	if out.Scrape.TimeoutSeconds <= 0 {
		out.Scrape.TimeoutSeconds = 15
	}
	if out.Scrape.HostRateLimit <= 0 {
		out.Scrape.HostRateLimit = 2
	}
	if out.Scrape.HostRateBurst <= 0 {
		out.Scrape.HostRateBurst = 4
	}
	if out.Scrape.SourceTimeoutM <= 0 {
		out.Scrape.SourceTimeoutM = 5
	}
	if out.Export.FilenameTemplate == "" {
		out.Export.FilenameTemplate = "c2c_jobs_{timestamp}.xlsx"
	}
	if out.Export.OutputDir == "" {
		out.Export.OutputDir = "."
	}

	// ---- Validation rules ----

	anySource := out.Sources.Greenhouse.Enabled || out.Sources.Lever.Enabled ||
		out.Sources.Indeed.Enabled || out.Sources.LinkedIn.Enabled ||
		out.Sources.Dice.Enabled || out.Sources.ZipRecruiter.Enabled ||
		out.Sources.RemoteOK.Enabled
	if !anySource {
		res.addErr("no sources enabled; enable at least one portal under sources")
	}

	if out.Sources.Greenhouse.Enabled && len(out.Sources.Greenhouse.Companies) == 0 {
		res.addErr("sources.greenhouse.enabled=true but companies is empty")
	}
	if out.Sources.Lever.Enabled && len(out.Sources.Lever.Companies) == 0 {
		res.addErr("sources.lever.enabled=true but companies is empty")
	}
	for _, q := range []struct {
		name string
		src  QuerySource
	}{
		{"indeed", out.Sources.Indeed},
		{"linkedin", out.Sources.LinkedIn},
		{"dice", out.Sources.Dice},
		{"ziprecruiter", out.Sources.ZipRecruiter},
	} {
		if q.src.Enabled && len(q.src.Queries) == 0 {
			res.addErr("sources.%s.enabled=true but queries is empty", q.name)
		}
		if q.src.Pages > 10 {
			res.addWarn("sources.%s.pages=%d is high; expect slow runs and rate limits", q.name, q.src.Pages)
		}
	}

	if out.Scrape.Workers > 16 {
		res.addWarn("scrape.workers=%d is high; boards may throttle you", out.Scrape.Workers)
	}

	if out.Upload.Enabled {
		if strings.TrimSpace(out.Upload.TargetUser) == "" {
			res.addErr("upload.target_user is required when upload.enabled=true")
		}
		if len(out.Upload.Recipients) == 0 {
			res.addWarn("upload.recipients is empty; the workbook will upload but nobody gets invited")
		}
	}

	return out, res
}
