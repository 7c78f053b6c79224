package config

const (
	defaultScheme             = "http"
	defaultHost               = "localhost"
	defaultPort               = 3000
	defaultPath               = "/api/health"
	defaultServerTimeoutSecs  = 5
	defaultLogsDir            = "logs"
	defaultProbeFile          = "health-test.log"
	defaultLockTimeoutMillis  = 2000
	defaultMemoryWarnMB       = 1024
	defaultMinUptimeSeconds   = 10
	defaultRetryMaxAttempts   = 5
	defaultRetryDelaySeconds  = 1
	defaultLogLevel           = "warn"
	defaultTracingExporter    = "none"
	defaultMetricsExporter    = "none"
	defaultTracingSamplePct   = 1.0
	defaultServeListen        = ":9090"
	defaultBatteryTimeoutSecs = 30
	defaultTokenAudience      = "healthprobe"
	defaultConfigFileName     = "healthprobe.toml"
	configPathEnv             = "HEALTHPROBE_CONFIG"
)

var (
	defaultStorePaths    = []string{"data/claude-flow.db", ".swarm/memory.db"}
	defaultWorkspaceDirs = []string{".swarm", "data"}
	defaultCriticalDirs  = []string{"src", "bin", "dist", "logs"}
)
