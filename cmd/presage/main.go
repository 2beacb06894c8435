package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"presage/internal/app"
	prcfg "presage/internal/config"
	"presage/internal/logger"
)

func main() {
	cfgPath := os.Getenv("PRESAGE_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := prcfg.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("initializing log file failed: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetOracleWriter(nil)
	if cfg.App.OracleDump {
		f, err := setupOracleLogOutput(cfg.App.OracleLog)
		if err != nil {
			log.Fatalf("initializing oracle log failed: %v", err)
		}
		if f != nil {
			defer f.Close()
		}
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.EnableOracleDump(cfg.App.OracleDump)
	logger.Infof("config loaded (env=%s)", cfg.App.Env)
	logger.InfoBlock(cfg.Summary())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go watchLogLevel(ctx, cfgPath)

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("initializing app failed: %v", err)
	}
	if err := application.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
	logger.Infof("shutdown complete")
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}

func setupOracleLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	logger.SetOracleWriter(f)
	return f, nil
}

// watchLogLevel re-reads app.log_level whenever the config file changes,
// so verbosity can be adjusted on a running process.
func watchLogLevel(ctx context.Context, cfgPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("config watcher unavailable: %v", err)
		return
	}
	defer watcher.Close()
	if err := watcher.Add(cfgPath); err != nil {
		logger.Warnf("config watcher: cannot watch %s: %v", cfgPath, err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := prcfg.Load(cfgPath)
			if err != nil {
				logger.Warnf("config reload skipped: %v", err)
				continue
			}
			logger.SetLevel(cfg.App.LogLevel)
			logger.Infof("log level set to %s", cfg.App.LogLevel)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("config watcher error: %v", err)
		}
	}
}
