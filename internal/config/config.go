package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"renewer/pkg/domain"
	"renewer/pkg/serrors"

	"github.com/ilyakaznacheev/cleanenv"
)

// Authentication strategy names accepted in Auth.Strategies.
const (
	StrategyReplay   = "replay"
	StrategyChromedp = "chromedp"
	StrategyRod      = "rod"
	StrategyDirect   = "direct"
)

// Session store backends accepted in Session.Store.
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

// Config represents the application configuration structure.
// Every field can be set from the YAML file or overridden by its environment variable.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// Account holds the registrar credentials
	Account struct {
		Email    string `env:"DP_EMAIL"    yaml:"email"`
		Password string `env:"DP_PASSWORD" yaml:"password"`
	} `yaml:"account"`

	// Portal locates the registrar pages
	Portal struct {
		LoginURL    string `env:"PORTAL_LOGIN_URL"     env-default:"https://dash.domain.digitalplat.org/auth/login"                         yaml:"loginURL"`    //nolint: lll
		DomainsURL  string `env:"PORTAL_DOMAINS_URL"   env-default:"https://dash.domain.digitalplat.org/panel/main?page=%2Fpanel%2Fdomains" yaml:"domainsURL"`  //nolint: lll
		APILoginURL string `env:"PORTAL_API_LOGIN_URL" env-default:"https://dash.domain.digitalplat.org/api/auth/login"                     yaml:"apiLoginURL"` //nolint: lll
		// PostLoginFragment is the URL fragment that marks a completed login redirect
		PostLoginFragment string `env:"PORTAL_POST_LOGIN_FRAGMENT" env-default:"clientarea.php" yaml:"postLoginFragment"`
		// PanelFragment is the URL fragment of pages only reachable when authenticated
		PanelFragment string `env:"PORTAL_PANEL_FRAGMENT" env-default:"/panel/" yaml:"panelFragment"`
	} `yaml:"portal"`

	// Browser configures both engines
	Browser struct {
		Headless          bool          `env:"BROWSER_HEADLESS"           env-default:"true"                                                                                                  yaml:"headless"`          //nolint: lll
		UserAgent         string        `env:"BROWSER_USER_AGENT"         env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36" yaml:"userAgent"` //nolint: lll
		WindowWidth       int           `env:"BROWSER_WINDOW_WIDTH"       env-default:"1366"                                                                                                  yaml:"windowWidth"`       //nolint: lll
		WindowHeight      int           `env:"BROWSER_WINDOW_HEIGHT"      env-default:"768"                                                                                                   yaml:"windowHeight"`      //nolint: lll
		Humanize          bool          `env:"BROWSER_HUMANIZE"           env-default:"true"                                                                                                  yaml:"humanize"`          //nolint: lll
		ExecPath          string        `env:"BROWSER_EXEC_PATH"                                                                                                                              yaml:"execPath"`          //nolint: lll
		ScreenshotDir     string        `env:"BROWSER_SCREENSHOT_DIR"     env-default:"screenshots"                                                                                           yaml:"screenshotDir"`     //nolint: lll
		NavigationTimeout time.Duration `env:"BROWSER_NAVIGATION_TIMEOUT" env-default:"60s"                                                                                                   yaml:"navigationTimeout"` //nolint: lll
	} `yaml:"browser"`

	// Auth configures the authentication chain
	Auth struct {
		// Strategies is the ordered list of strategies to try
		Strategies []string `env:"AUTH_STRATEGIES" env-default:"replay,chromedp,rod,direct" yaml:"strategies"`
		// GateTimeout bounds the wait for the human-verification gate to clear
		GateTimeout time.Duration `env:"AUTH_GATE_TIMEOUT" env-default:"150s" yaml:"gateTimeout"`
		// RedirectTimeout bounds the wait for the post-login redirect
		RedirectTimeout time.Duration `env:"AUTH_REDIRECT_TIMEOUT" env-default:"30s" yaml:"redirectTimeout"`
		// ProbeTimeout bounds the check that a replayed or seeded session is authenticated
		ProbeTimeout time.Duration `env:"AUTH_PROBE_TIMEOUT" env-default:"20s" yaml:"probeTimeout"`
		// DirectTimeout bounds a single direct login request
		DirectTimeout time.Duration `env:"AUTH_DIRECT_TIMEOUT" env-default:"30s" yaml:"directTimeout"`
	} `yaml:"auth"`

	// Retry bounds transient navigation and UI waits
	Retry struct {
		MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" env-default:"3"   yaml:"maxAttempts"`
		Delay       time.Duration `env:"RETRY_DELAY"        env-default:"5s"  yaml:"delay"`
		Multiplier  float64       `env:"RETRY_MULTIPLIER"   env-default:"1"   yaml:"multiplier"`
		MaxDelay    time.Duration `env:"RETRY_MAX_DELAY"    env-default:"30s" yaml:"maxDelay"`
	} `yaml:"retry"`

	// Session configures where the session token is kept between runs
	Session struct {
		Store         string `env:"SESSION_STORE"          env-default:"file"                     yaml:"store"`
		Path          string `env:"SESSION_PATH"           env-default:"session.json"             yaml:"path"`
		EncryptionKey string `env:"SESSION_ENCRYPTION_KEY"                                        yaml:"encryptionKey"`
		RedisURL      string `env:"SESSION_REDIS_URL"      env-default:"redis://localhost:6379/0" yaml:"redisURL"`
		RedisKey      string `env:"SESSION_REDIS_KEY"      env-default:"renewer:session"          yaml:"redisKey"`
	} `yaml:"session"`

	// Notify configures the Bark push sink
	Notify struct {
		BarkKey    string `env:"BARK_KEY"                                       yaml:"barkKey"`
		BarkServer string `env:"BARK_SERVER" env-default:"https://api.day.app" yaml:"barkServer"`
	} `yaml:"notify"`

	// Report configures run outputs
	Report struct {
		Path            string `env:"REPORT_PATH"      env-default:"renewal_report.json" yaml:"path"`
		MetricsTextfile string `env:"METRICS_TEXTFILE"                                   yaml:"metricsTextfile"`
	} `yaml:"report"`

	// RunTimeout bounds one whole run
	RunTimeout time.Duration `env:"RUN_TIMEOUT" env-default:"30m" yaml:"runTimeout"`

	// Schedule configures the periodic runner
	Schedule struct {
		Interval   time.Duration `env:"SCHEDULE_INTERVAL"     env-default:"24h"  yaml:"interval"`
		RunOnStart bool          `env:"SCHEDULE_RUN_ON_START" env-default:"true" yaml:"runOnStart"`
	} `yaml:"schedule"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// PprofEnabled serves the runtime profiles under /debug/pprof/
		PprofEnabled bool `env:"HTTP_PPROF_ENABLED" env-default:"false" yaml:"pprofEnabled"`
		// RiverUIEnabled serves the job queue dashboard under /riverui/. It has no authentication.
		RiverUIEnabled bool `env:"HTTP_RIVERUI_ENABLED" env-default:"false" yaml:"riverUIEnabled"`
	} `yaml:"http"`

	// JWT holds the RS256 keys guarding the v1 API
	JWT struct {
		// PublicKey is the PEM encoded key used to verify bearer tokens.
		// Without it every v1 request is rejected.
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM encoded key the jwt command signs with
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Database contains all database connection related configurations
	Database struct {
		// Enabled stores reports in postgres and allows scheduling
		Enabled bool `env:"DATABASE_ENABLED" env-default:"false" yaml:"enabled"`
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"renewer" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"renewer" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"renewer" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"4" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"1" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing work to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the yaml config file at configPath when it exists, then applies
// environment variables on top. Without a file the configuration comes from the
// environment alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(configPath)
	switch {
	case configPath != "" && statErr == nil:
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}
	}

	for i, s := range cfg.Auth.Strategies {
		cfg.Auth.Strategies[i] = strings.ToLower(strings.TrimSpace(s))
	}

	return &cfg, nil
}

// Validate reports every missing or invalid setting as one ErrConfiguration.
func (c *Config) Validate() error {
	var problems []error
	if c.Account.Email == "" {
		problems = append(problems, errors.New("DP_EMAIL is required"))
	}
	if c.Account.Password == "" {
		problems = append(problems, errors.New("DP_PASSWORD is required"))
	}

	if len(c.Auth.Strategies) == 0 {
		problems = append(problems, errors.New("AUTH_STRATEGIES must name at least one strategy"))
	}
	known := []string{StrategyReplay, StrategyChromedp, StrategyRod, StrategyDirect}
	for _, s := range c.Auth.Strategies {
		if !slices.Contains(known, s) {
			problems = append(problems, fmt.Errorf("unknown auth strategy %q", s))
		}
	}

	switch c.Session.Store {
	case SessionStoreFile, SessionStoreRedis:
	default:
		problems = append(problems, fmt.Errorf("unknown session store %q", c.Session.Store))
	}

	if c.Retry.MaxAttempts < 1 {
		problems = append(problems, errors.New("RETRY_MAX_ATTEMPTS must be at least 1"))
	}

	if len(problems) > 0 {
		return serrors.Wrap(serrors.ErrConfiguration, errors.Join(problems...), "invalid configuration")
	}

	return nil
}

// Credentials returns the account credentials.
func (c *Config) Credentials() domain.Credentials {
	return domain.Credentials{Identity: c.Account.Email, Secret: c.Account.Password}
}
