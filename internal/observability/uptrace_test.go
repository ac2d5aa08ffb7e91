package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	tests := []config.Config{
		{UptraceEnabled: false, ServiceName: "challenge-league-api", AppEnv: config.EnvDev},
		{UptraceEnabled: true, UptraceDSN: "  ", ServiceName: "challenge-league-api", AppEnv: config.EnvDev},
	}

	for _, cfg := range tests {
		shutdown, err := InitUptrace(cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("init uptrace: %v", err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown uptrace: %v", err)
		}
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestProfilerConfig_ContentionProfilesOutsideProd(t *testing.T) {
	dev := profilerConfig(config.Config{AppEnv: config.EnvDev, ServiceVersion: "1.4.0"})
	prod := profilerConfig(config.Config{AppEnv: config.EnvProd})

	if len(dev.ProfileTypes) != len(baseProfiles)+len(contentionProfiles) {
		t.Fatalf("expected contention profiles in dev, got %v", dev.ProfileTypes)
	}
	if len(prod.ProfileTypes) != len(baseProfiles) {
		t.Fatalf("expected base profiles only in prod, got %v", prod.ProfileTypes)
	}
	if dev.Tags["version"] != "1.4.0" {
		t.Fatalf("expected version tag, got %v", dev.Tags)
	}
}

func TestPprofServer_DisabledAndLifecycle(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if err != nil || srv != nil {
		t.Fatalf("expected no server when disabled, got %v, %v", srv, err)
	}
	if err := srv.Close(time.Second); err != nil {
		t.Fatalf("close nil server: %v", err)
	}

	srv, err = StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/debug/pprof/cmdline")
	if err != nil {
		t.Fatalf("get cmdline: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from pprof, got %d", resp.StatusCode)
	}

	if err := srv.Close(time.Second); err != nil {
		t.Fatalf("stop pprof: %v", err)
	}
}
