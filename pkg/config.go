package soaprouter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RouterConfig is the router's deployment configuration: transport
// bind settings, the audit store's DSN, the observability endpoints'
// Basic Auth credentials, and the paths those endpoints are mounted
// at. It is the concrete, struct-typed analogue of the ambient
// framework's generic key/value ConfigManager, since a SOAP router's
// configuration surface is small and fixed rather than open-ended.
type RouterConfig struct {
	ListenAddr string `toml:"listen_addr" yaml:"listen_addr"`

	TLSCertFile string `toml:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile  string `toml:"tls_key_file" yaml:"tls_key_file"`
	EnableHTTP2 bool   `toml:"enable_http2" yaml:"enable_http2"`
	EnableQUIC  bool   `toml:"enable_quic" yaml:"enable_quic"`

	AuditDriver string `toml:"audit_driver" yaml:"audit_driver"`
	AuditDSN    string `toml:"audit_dsn" yaml:"audit_dsn"`

	EventsPath  string `toml:"events_path" yaml:"events_path"`
	MetricsPath string `toml:"metrics_path" yaml:"metrics_path"`

	ObserverUsername     string `toml:"observer_username" yaml:"observer_username"`
	ObserverPasswordHash string `toml:"observer_password_hash" yaml:"observer_password_hash"`
	ObserverAlgorithm    string `toml:"observer_algorithm" yaml:"observer_algorithm"`

	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoadRouterConfig reads a RouterConfig from a TOML or YAML file,
// chosen by the file's extension, in the same load-by-extension spirit
// as the ambient framework's ConfigManager.Load.
func LoadRouterConfig(path string) (*RouterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &RouterConfig{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = parseConfigTOML(data, cfg)
	case ".yaml", ".yml":
		err = parseConfigYAML(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyRouterConfigEnv overrides cfg's fields from ROUTER_-prefixed
// environment variables, for the handful of settings operators most
// often need to override per-deployment without editing a file.
func ApplyRouterConfigEnv(cfg *RouterConfig) {
	if v := os.Getenv("ROUTER_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("ROUTER_AUDIT_DSN"); v != "" {
		cfg.AuditDSN = v
	}
	if v := os.Getenv("ROUTER_OBSERVER_USERNAME"); v != "" {
		cfg.ObserverUsername = v
	}
	if v := os.Getenv("ROUTER_OBSERVER_PASSWORD_HASH"); v != "" {
		cfg.ObserverPasswordHash = v
	}
}

// configWatcher polls a RouterConfig file's mtime and invokes callback
// with the freshly reloaded config whenever it changes, mirroring the
// ambient framework's ConfigManager.Watch polling loop.
type configWatcher struct {
	mu        sync.Mutex
	path      string
	interval  time.Duration
	lastMod   time.Time
	stopCh    chan struct{}
	onChange  func(*RouterConfig)
	onErr     func(error)
	stoppedCh chan struct{}
}

// WatchRouterConfig starts polling path for changes every interval,
// invoking onChange with each successfully reloaded config. Call the
// returned stop function to end the watch goroutine.
func WatchRouterConfig(path string, interval time.Duration, onChange func(*RouterConfig), onErr func(error)) (stop func()) {
	w := &configWatcher{
		path:      path,
		interval:  interval,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		onChange:  onChange,
		onErr:     onErr,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}
	go w.loop()
	return func() {
		close(w.stopCh)
		<-w.stoppedCh
	}
}

func (w *configWatcher) loop() {
	defer close(w.stoppedCh)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			w.mu.Lock()
			changed := info.ModTime().After(w.lastMod)
			if changed {
				w.lastMod = info.ModTime()
			}
			w.mu.Unlock()
			if !changed {
				continue
			}

			cfg, err := LoadRouterConfig(w.path)
			if err != nil {
				if w.onErr != nil {
					w.onErr(err)
				}
				continue
			}
			if w.onChange != nil {
				w.onChange(cfg)
			}
		}
	}
}
