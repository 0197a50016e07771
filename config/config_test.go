package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
postgres:
  dsn: "postgres://localhost/chat"
security:
  jwt:
    secret: "s3cret"
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("http.addr default: %q", cfg.HTTP.Addr)
	}
	if cfg.Security.JWT.Alg != "HS256" || cfg.Security.JWT.AccessTTL != 7*24*time.Hour {
		t.Fatalf("jwt defaults: %+v", cfg.Security.JWT)
	}
	if cfg.Realtime.MonitorUsername != "superadmin" {
		t.Fatalf("monitor default: %q", cfg.Realtime.MonitorUsername)
	}
	if cfg.Realtime.MonitorPassword != "" {
		t.Fatal("monitorPassword must default to empty")
	}
	if cfg.Realtime.MultiConnection {
		t.Fatal("multiConnection must default to false")
	}
	if cfg.WS.PingEvery != 15*time.Second {
		t.Fatalf("ws.pingEvery default: %v", cfg.WS.PingEvery)
	}
}

func TestParse_Durations(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML + `
ws:
  pingEvery: 3s
http:
  shutdownTimeout: 250ms
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.WS.PingEvery != 3*time.Second {
		t.Fatalf("pingEvery: %v", cfg.WS.PingEvery)
	}
	if cfg.HTTP.ShutdownTimeout != 250*time.Millisecond {
		t.Fatalf("shutdownTimeout: %v", cfg.HTTP.ShutdownTimeout)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"missing dsn": `
security:
  jwt:
    secret: x
`,
		"missing secret": `
postgres:
  dsn: x
`,
		"rs256 without keys": `
postgres:
  dsn: x
security:
  jwt:
    alg: RS256
`,
		"unknown alg": `
postgres:
  dsn: x
security:
  jwt:
    alg: none
    secret: x
`,
		"short password": `
postgres:
  dsn: x
security:
  password:
    minLength: 3
  jwt:
    secret: x
`,
	}
	for name, in := range cases {
		if _, err := Parse([]byte(in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadConfig_FromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://localhost/chat" {
		t.Fatalf("dsn: %q", cfg.Postgres.DSN)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestShippedConfigIsValid(t *testing.T) {
	if _, err := LoadFile("config.yaml"); err != nil {
		t.Fatalf("config.yaml: %v", err)
	}
}
