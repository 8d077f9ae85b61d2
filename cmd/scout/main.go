package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"c2cscout/internal/aggregate"
	"c2cscout/internal/config"
	"c2cscout/internal/export"
	"c2cscout/internal/secrets"
	"c2cscout/internal/upload"
)

func main() {
	var (
		cfgPath     = flag.String("config", "", "config file (default: <data-dir>/config.yml, bootstrapped on first run)")
		dataDir     = flag.String("data-dir", "", "data directory (default: $C2CSCOUT_DATA_DIR or .)")
		outDir      = flag.String("out", "", "output directory for the workbook (overrides export.output_dir)")
		dryRun      = flag.Bool("dry-run", false, "scrape and export but skip the OneDrive upload")
		sources     = flag.String("sources", "", "comma-separated subset of sources to run (default: all enabled)")
		saveSecrets = flag.Bool("save-secrets", false, "store MICROSOFT_* env vars in the OS keychain and exit")
	)
	flag.Parse()

	// .env is optional; real env always wins.
	_ = godotenv.Load()

	if *saveSecrets {
		if err := secrets.Save(); err != nil {
			log.Fatalf("[scout] save-secrets: %v", err)
		}
		log.Printf("[scout] Graph credentials stored in keychain service %q", secrets.KeyringService)
		return
	}

	dir := *dataDir
	if dir == "" {
		dir = os.Getenv("C2CSCOUT_DATA_DIR")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One run at a time per data dir: a second invocation while a scrape
	// is in flight would double-hit every portal.
	lock := flock.New(filepath.Join(dir, "scout.lock"))
	held, err := lock.TryLock()
	if err != nil {
		log.Fatalf("[scout] run lock: %v", err)
	}
	if !held {
		log.Fatalf("[scout] another run is already in progress (lock: %s)", lock.Path())
	}
	defer lock.Unlock()

	userCfgPath := *cfgPath
	if userCfgPath == "" {
		userCfgPath, err = config.EnsureUserConfig(dir, filepath.Join("config", "config.yml"))
		if err != nil {
			log.Fatalf("[scout] config bootstrap failed: %v", err)
		}
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("[scout] config load failed (%s): %v", userCfgPath, err)
	}
	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[scout] config warning: %s", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[scout] config error: %s", e)
		}
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Export.OutputDir = *outDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetchers, cls, limiter := buildFetchers(cfg, parseSourceSet(*sources))
	if len(fetchers) == 0 {
		log.Printf("[scout] no sources selected; nothing to do")
		return
	}
	names := make([]string, 0, len(fetchers))
	for _, f := range fetchers {
		names = append(names, f.Name())
	}
	log.Printf("[scout] starting run: sources=%s workers=%d", strings.Join(names, ","), cfg.Scrape.Workers)

	describer := aggregate.NewDescriber(
		time.Duration(cfg.Scrape.TimeoutSeconds)*time.Second, limiter)
	agg := aggregate.New(fetchers, cls, describer,
		time.Duration(cfg.Scrape.SourceTimeoutM)*time.Minute)

	postings, stats, err := agg.Run(ctx)
	if err != nil {
		log.Fatalf("[scout] run failed: %v", err)
	}
	if len(postings) == 0 {
		log.Printf("[scout] no matching postings found; nothing to do")
		return
	}

	book, err := export.Workbook(postings)
	if err != nil {
		if err == export.ErrNoPostings {
			log.Printf("[scout] no matching postings found; nothing to do")
			return
		}
		log.Fatalf("[scout] export failed: %v", err)
	}

	filename := export.Filename(cfg.Export.FilenameTemplate, time.Now())
	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		log.Fatal(err)
	}
	outPath := filepath.Join(cfg.Export.OutputDir, filename)
	if err := os.WriteFile(outPath, book, 0o644); err != nil {
		log.Fatalf("[scout] write workbook: %v", err)
	}
	log.Printf("[scout] wrote %d postings to %s (raw=%d unique=%d)",
		stats.Filtered, outPath, stats.Raw, stats.Unique)

	if !cfg.Upload.Enabled || *dryRun {
		if *dryRun && cfg.Upload.Enabled {
			log.Printf("[scout] dry-run: skipping OneDrive upload")
		}
		return
	}

	creds, err := secrets.GraphCredentials()
	if err != nil {
		log.Fatalf("[scout] %v", err)
	}
	client := upload.New(creds)
	if err := client.Authenticate(ctx, cfg.Upload.TargetUser); err != nil {
		log.Fatalf("[scout] graph auth failed: %v", err)
	}
	link, err := client.UploadAndShare(ctx, book, filename, cfg.Upload.Recipients)
	if err != nil {
		log.Fatalf("[scout] upload failed: %v", err)
	}
	log.Printf("[scout] uploaded %s, share link: %s", filename, link)
}

// parseSourceSet turns "-sources greenhouse,lever" into a lookup set.
// Empty input means "all enabled".
func parseSourceSet(s string) map[string]bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			set[part] = true
		}
	}
	return set
}
