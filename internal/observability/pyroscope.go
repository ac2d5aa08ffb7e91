package observability

import (
	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

// Mutex and block profiles are only collected outside prod.
var (
	baseProfiles = []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}
	contentionProfiles = []pyroscope.ProfileType{
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
		pyroscope.ProfileBlockDuration,
	}
)

func profilerConfig(cfg config.Config) pyroscope.Config {
	profiles := append([]pyroscope.ProfileType(nil), baseProfiles...)
	if cfg.AppEnv != config.EnvProd {
		profiles = append(profiles, contentionProfiles...)
	}
	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		ProfileTypes:      profiles,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
			"storage": cfg.StorageDriver,
		},
	}
}

// InitPyroscope starts continuous profiling when enabled. The returned func
// stops the profiler.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	pc := profilerConfig(cfg)
	profiler, err := pyroscope.Start(pc)
	if err != nil {
		return nil, err
	}
	logger.Info("pyroscope enabled",
		"server_address", pc.ServerAddress,
		"application", pc.ApplicationName,
		"profiles", len(pc.ProfileTypes),
	)
	return profiler.Stop, nil
}
