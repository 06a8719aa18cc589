package soaprouter

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRouterConfigTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "router.toml")
	content := `
listen_addr = ":9443"
enable_http2 = true
audit_driver = "sqlite3"
audit_dsn = "file:audit.db"
observer_username = "ops"
read_timeout = "10s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRouterConfig(path)
	if err != nil {
		t.Fatalf("LoadRouterConfig: %v", err)
	}
	if cfg.ListenAddr != ":9443" {
		t.Errorf("expected listen_addr :9443, got %q", cfg.ListenAddr)
	}
	if !cfg.EnableHTTP2 {
		t.Error("expected enable_http2 true")
	}
	if cfg.AuditDSN != "file:audit.db" {
		t.Errorf("expected audit dsn, got %q", cfg.AuditDSN)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("expected read_timeout 10s, got %v", cfg.ReadTimeout)
	}
	// Defaults should fill in untouched fields.
	if cfg.EventsPath != "/_events" {
		t.Errorf("expected default events path, got %q", cfg.EventsPath)
	}
}

func TestLoadRouterConfigYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "router.yaml")
	content := "listen_addr: \":8443\"\nenable_quic: true\nmetrics_path: /stats\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRouterConfig(path)
	if err != nil {
		t.Fatalf("LoadRouterConfig: %v", err)
	}
	if cfg.ListenAddr != ":8443" {
		t.Errorf("expected listen_addr :8443, got %q", cfg.ListenAddr)
	}
	if !cfg.EnableQUIC {
		t.Error("expected enable_quic true")
	}
	if cfg.MetricsPath != "/stats" {
		t.Errorf("expected overridden metrics path, got %q", cfg.MetricsPath)
	}
}

func TestLoadRouterConfigRejectsUnknownExtension(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "router.ini")
	if err := os.WriteFile(path, []byte("listen_addr=:8080"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadRouterConfig(path); err == nil {
		t.Fatal("expected error for unsupported config format")
	}
}

func TestApplyRouterConfigEnvOverridesListenAddr(t *testing.T) {
	t.Setenv("ROUTER_LISTEN_ADDR", ":7777")
	cfg := &RouterConfig{ListenAddr: ":8080"}
	ApplyRouterConfigEnv(cfg)
	if cfg.ListenAddr != ":7777" {
		t.Errorf("expected env override, got %q", cfg.ListenAddr)
	}
}

func TestWatchRouterConfigDetectsChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "router.toml")
	if err := os.WriteFile(path, []byte(`listen_addr = ":8080"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	changed := make(chan *RouterConfig, 1)
	stop := WatchRouterConfig(path, 20*time.Millisecond, func(c *RouterConfig) {
		select {
		case changed <- c:
		default:
		}
	}, nil)
	defer stop()

	time.Sleep(30 * time.Millisecond)
	future := time.Now().Add(time.Second)
	if err := os.WriteFile(path, []byte(`listen_addr = ":9090"`), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	select {
	case cfg := <-changed:
		if cfg.ListenAddr != ":9090" {
			t.Errorf("expected reloaded listen_addr :9090, got %q", cfg.ListenAddr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected config change to be detected")
	}
}
