package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cryo.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	m, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c := m.Config()
	if c.Sim.TickRate != 20 {
		t.Errorf("tickRate: got %d, want 20", c.Sim.TickRate)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("addr: got %q, want :8080", c.Server.Addr)
	}
	if c.Server.WriteTimeout != 5*time.Second {
		t.Errorf("writeTimeout: got %v, want 5s", c.Server.WriteTimeout)
	}
	if c.Sim.TickInterval() != 50*time.Millisecond {
		t.Errorf("tick interval: got %v", c.Sim.TickInterval())
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logs:
  level: debug
sim:
  seed: 99
  tickRate: 30
server:
  addr: "127.0.0.1:9000"
  writeTimeout: 250ms
  allowOrigins: "http://a.test,http://b.test"
save:
  enabled: false
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c := m.Config()
	if c.Logs.Level != "debug" || c.Sim.Seed != 99 || c.Sim.TickRate != 30 {
		t.Errorf("decoded config: %+v", c)
	}
	if c.Server.WriteTimeout != 250*time.Millisecond {
		t.Errorf("writeTimeout: got %v", c.Server.WriteTimeout)
	}
	if len(c.Server.AllowOrigins) != 2 || c.Server.AllowOrigins[1] != "http://b.test" {
		t.Errorf("allowOrigins: got %v", c.Server.AllowOrigins)
	}
	if c.Save.Enabled {
		t.Error("save should be disabled")
	}
	// 未写入文件的键保持默认值
	if c.Server.BroadcastEvery != 4 {
		t.Errorf("broadcastEvery default: got %d", c.Server.BroadcastEvery)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CRYO_SIM_SEED", "1234")
	m, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := m.Config().Sim.Seed; got != 1234 {
		t.Errorf("seed from env: got %d, want 1234", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
	path := writeConfig(t, "sim:\n  tickRate: 0\n")
	if _, err := Load(path); err == nil {
		t.Error("tickRate 0 should fail validation")
	}
}

func TestReload(t *testing.T) {
	path := writeConfig(t, "sim:\n  seed: 1\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var got []Config
	m.OnChange(func(c Config) { got = append(got, c) })

	if err := os.WriteFile(path, []byte("sim:\n  seed: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	m.reload()
	if len(got) != 1 || got[0].Sim.Seed != 2 || m.Config().Sim.Seed != 2 {
		t.Errorf("reload: listeners=%v current=%+v", got, m.Config().Sim)
	}

	// 非法配置被拒绝，保留旧值
	if err := os.WriteFile(path, []byte("sim:\n  seed: 3\n  tickRate: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	m.reload()
	if m.Config().Sim.Seed != 2 || len(got) != 1 {
		t.Errorf("invalid reload should be ignored: %+v", m.Config().Sim)
	}
}

func TestOpenStorage(t *testing.T) {
	m, err := OpenStorage(SaveSettings{Enabled: false, AppName: "ignored"})
	if err != nil || m != nil {
		t.Errorf("disabled storage: got %v %v", m, err)
	}

	t.Setenv("HOME", t.TempDir())
	m, err = OpenStorage(SaveSettings{Enabled: true, AppName: "cryodefense_test"})
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	if m == nil {
		t.Fatal("enabled storage should return a manager")
	}
}
