package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"renewer/internal/auth"
	"renewer/internal/config"
	"renewer/internal/renewal"
	"renewer/pkg/browser"
	"renewer/pkg/browser/cdp"
	"renewer/pkg/browser/rodengine"
	"renewer/pkg/logger"
	"renewer/pkg/metrics"
	"renewer/pkg/notify"
	"renewer/pkg/notify/bark"
	"renewer/pkg/retry"
	"renewer/pkg/serrors"
	"renewer/pkg/sessionstore"
	sessionfile "renewer/pkg/sessionstore/file"
	"renewer/pkg/sessionstore/redisstore"
	"renewer/pkg/storage"
	reportfile "renewer/pkg/storage/file"
	"renewer/pkg/storage/postgres"

	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

func newNotifier(cfg *config.Config) *bark.Client {
	return bark.New(&http.Client{Timeout: bark.DefaultTimeout}, cfg.Notify.BarkServer, cfg.Notify.BarkKey)
}

func newSessionStore(ctx context.Context, cfg *config.Config) (sessionstore.Store, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb, err := redisstore.Connect(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis: %w", err)
		}

		return redisstore.New(rdb, cfg.Session.RedisKey), func() {
			if err := rdb.Close(); err != nil {
				logger.Warn(ctx, "could not close redis client", zap.Error(err))
			}
		}, nil
	default:
		return sessionfile.New(cfg.Session.Path, cfg.Session.EncryptionKey), func() {}, nil
	}
}

// newReportStorage always writes the report file and adds postgres when enabled.
// pg may be nil.
func newReportStorage(cfg *config.Config, pg *postgres.PgSQL) storage.ReportStorage {
	backends := storage.Fanout{reportfile.New(cfg.Report.Path)}
	if pg != nil {
		backends = append(backends, pg)
	}

	return backends
}

func newPolicy(cfg *config.Config) *retry.Policy {
	return retry.New(retry.Options{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Delay:       cfg.Retry.Delay,
		Multiplier:  cfg.Retry.Multiplier,
		MaxDelay:    cfg.Retry.MaxDelay,
	})
}

func browserOptions(cfg *config.Config) browser.Options {
	return browser.Options{
		Headless:          cfg.Browser.Headless,
		UserAgent:         cfg.Browser.UserAgent,
		WindowWidth:       cfg.Browser.WindowWidth,
		WindowHeight:      cfg.Browser.WindowHeight,
		Humanize:          cfg.Browser.Humanize,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
	}
}

// newStrategies maps the configured strategy names to strategies, in order.
// The chromedp engine is the primary one: replay and direct seed it.
func newStrategies(cfg *config.Config, store sessionstore.Store, policy *retry.Policy) ([]auth.Strategy, error) {
	primary := cdp.New(cfg.Browser.ExecPath)
	secondary := rodengine.New(cfg.Browser.ExecPath)
	opts := browserOptions(cfg)

	portal := auth.Portal{
		LoginURL:          cfg.Portal.LoginURL,
		DomainsURL:        cfg.Portal.DomainsURL,
		APILoginURL:       cfg.Portal.APILoginURL,
		PostLoginFragment: cfg.Portal.PostLoginFragment,
		PanelFragment:     cfg.Portal.PanelFragment,
	}
	timeouts := auth.Timeouts{
		Gate:     cfg.Auth.GateTimeout,
		Redirect: cfg.Auth.RedirectTimeout,
		Verify:   cfg.Auth.ProbeTimeout,
	}

	strategies := make([]auth.Strategy, 0, len(cfg.Auth.Strategies))
	for _, name := range cfg.Auth.Strategies {
		switch name {
		case config.StrategyReplay:
			strategies = append(strategies, auth.NewReplay(store, primary, opts, portal, timeouts.Verify))
		case config.StrategyChromedp:
			strategies = append(strategies,
				auth.NewInteractive(primary, opts, portal, timeouts, policy, cfg.Browser.ScreenshotDir))
		case config.StrategyRod:
			strategies = append(strategies,
				auth.NewInteractive(secondary, opts, portal, timeouts, policy, cfg.Browser.ScreenshotDir))
		case config.StrategyDirect:
			strategies = append(strategies,
				auth.NewDirect(nil, cfg.Auth.DirectTimeout, policy, primary, opts, portal, timeouts.Verify))
		default:
			return nil, serrors.With(serrors.ErrConfiguration, "unknown authentication strategy %q", name)
		}
	}

	return strategies, nil
}

// newRunner assembles a Runner and returns a cleanup releasing its session store.
func newRunner(
	ctx context.Context,
	cfg *config.Config,
	m *metrics.Metrics,
	reports storage.ReportStorage,
) (*renewal.Runner, func(), error) {
	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	policy := newPolicy(cfg)
	strategies, err := newStrategies(cfg, store, policy)
	if err != nil {
		closeStore()

		return nil, nil, err
	}

	chain := auth.NewChain(store, strategies, auth.WithRecorder(m))
	workflow := renewal.NewWorkflow(renewal.Options{
		ListingURL:    cfg.Portal.DomainsURL,
		PageTimeout:   cfg.Browser.NavigationTimeout,
		ScreenshotDir: cfg.Browser.ScreenshotDir,
	}, policy)

	return renewal.NewRunner(chain, workflow, reports, newNotifier(cfg), renewal.WithRecorder(m)), closeStore, nil
}

// notifyStartupError sends a best-effort notification about an error that
// stopped a run before the domain loop, when a Bark key could be read.
func notifyStartupError(ctx context.Context, cfg *config.Config, err error) {
	n := newNotifier(cfg)
	if !n.Enabled() {
		return
	}

	sendStartupError(ctx, n, err)
}

// sendStartupError titles err as a misconfiguration only when it is one.
func sendStartupError(ctx context.Context, sink notify.Sink, err error) {
	title := "DigitalPlat renewer could not start a run"
	if errors.Is(err, serrors.ErrConfiguration) {
		title = "DigitalPlat renewer misconfigured"
	}

	sink.Send(ctx, title, err.Error(), notify.SeverityCritical)
}
