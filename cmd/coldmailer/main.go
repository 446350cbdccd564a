package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldmailer/internal/campaign"
	"coldmailer/internal/config"
	"coldmailer/internal/mailer"
	"coldmailer/internal/roster"
	"coldmailer/internal/schedule"
	"coldmailer/internal/storage"
	logx "coldmailer/pkg/logx"
)

func main() {
	var (
		cfgPath       string
		rcptPath      string
		testRun       bool
		dryRun        bool
		createSamples bool
		startAt       string
	)
	flag.StringVar(&cfgPath, "config", "./config.json", "path to config (json or yaml)")
	flag.StringVar(&rcptPath, "recipients", "./recipients.csv", "path to recipients csv")
	flag.BoolVar(&testRun, "test", false, "use ./test.csv instead of the recipients file")
	flag.BoolVar(&dryRun, "dry-run", false, "render and account without sending")
	flag.BoolVar(&createSamples, "create-samples", false, "write sample config.json and recipients.csv, then exit")
	flag.StringVar(&startAt, "start-at", "", `delay the run: cron spec ("0 9 * * *") or duration ("45m")`)
	flag.Parse()

	if createSamples {
		if err := config.WriteSample("./config.json"); err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			os.Exit(1)
		}
		if err := roster.WriteSample("./recipients.csv"); err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			os.Exit(1)
		}
		fmt.Println("Sample files created. Edit config.json and recipients.csv before running.")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if testRun {
		rcptPath = "./test.csv"
	}

	if err := run(ctx, cfgPath, rcptPath, dryRun, startAt); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, rcptPath string, dryRun bool, startAt string) error {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logSvc, log := logx.New(logCfg(cfg.Logging))
	defer logSvc.Close()
	mgr.SetLogger(log)
	log.Info("configuration loaded", logx.String("path", cfgPath))

	recipients, err := roster.Load(rcptPath)
	if err != nil {
		return fmt.Errorf("load recipients %s: %w", rcptPath, err)
	}
	log.Info("recipients loaded", logx.Int("count", len(recipients)), logx.String("path", rcptPath))

	store, err := storage.Open(storeCfg(cfg.Storage), log)
	if err != nil {
		return fmt.Errorf("open delivery log: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	ml, err := mailer.New(mailer.Config{
		Server:         cfg.Email.Server,
		Port:           cfg.Email.PortOrDefault(),
		SenderEmail:    cfg.Email.SenderEmail,
		SenderPassword: cfg.Email.SenderPassword,
	}, log)
	if err != nil {
		return fmt.Errorf("smtp setup: %w", err)
	}

	disp := campaign.New(cfg.Email.SenderEmail, ml, log)
	disp.SetPacing(pacingFrom(cfg))
	if store != nil {
		disp.SetStore(store)
	}

	// Hot reload: rate limits and logging may be adjusted mid-run; endpoint
	// and template changes require a fresh run.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() { _ = mgr.Watch(watchCtx) }()
	updates := mgr.Subscribe(1)
	defer mgr.Unsubscribe(updates)
	go func() {
		for next := range updates {
			disp.SetPacing(pacingFrom(next))
			logSvc.Apply(logCfg(next.Logging))
			log.Info("pacing updated",
				logx.Duration("min_delay", next.RateLimiting.MinDelay()),
				logx.Duration("max_delay", next.RateLimiting.MaxDelay()),
				logx.Int("max_per_window", next.RateLimiting.Window()))
		}
	}()

	if startAt != "" {
		at, err := schedule.Next(startAt, time.Now())
		if err != nil {
			return err
		}
		log.Info("campaign start scheduled", logx.Time("start", at), logx.Duration("wait", time.Until(at)))
		tmr := time.NewTimer(time.Until(at))
		select {
		case <-ctx.Done():
			if !tmr.Stop() {
				<-tmr.C
			}
			return ctx.Err()
		case <-tmr.C:
		}
	}

	if dryRun {
		log.Info("dry run mode: no emails will be sent")
	}

	tpl := campaign.Template{Subject: cfg.Template.Subject, Body: cfg.Template.Body}
	res, err := disp.Run(ctx, recipients, tpl, dryRun)
	if err != nil {
		return err
	}

	fmt.Printf("\nCampaign Summary:\n")
	fmt.Printf("Emails sent: %d\n", res.Sent)
	fmt.Printf("Emails failed: %d\n", res.Failed)
	return nil
}

func logCfg(l *config.LoggingConfig) logx.Config {
	if l == nil {
		// Matches the historical default: readable console plus a JSON file.
		return logx.Config{
			Level:   "info",
			Console: true,
			File:    logx.FileConfig{Enabled: true, Path: "./coldmailer.log"},
		}
	}
	return logx.Config{
		Level:   l.Level,
		Console: l.ConsoleEnabled(),
		File:    logx.FileConfig{Enabled: l.File.Enabled, Path: l.File.Path},
	}
}

func storeCfg(s *config.StorageConfig) storage.Config {
	if s == nil {
		return storage.Config{}
	}
	// Validated during pre-flight; a parse error here means disabled timeout.
	busy, _ := config.ParseDurationField("storage.busy_timeout", s.BusyTimeout)
	return storage.Config{Driver: s.Driver, Path: s.Path, BusyTimeout: busy}
}

func pacingFrom(cfg *config.Config) campaign.Pacing {
	r := cfg.RateLimiting
	return campaign.Pacing{
		MinDelay:     r.MinDelay(),
		MaxDelay:     r.MaxDelay(),
		MaxPerWindow: r.Window(),
		Cooldown:     r.CooldownOrDefault(),
	}
}
