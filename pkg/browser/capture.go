package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"renewer/pkg/logger"

	"go.uber.org/zap"
)

// Capture saves a best-effort full page screenshot under dir named after
// what went wrong. An empty dir disables it.
func Capture(ctx context.Context, sess Session, dir, name string) {
	if dir == "" || sess == nil {
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", name, time.Now().UTC().Format("20060102-150405")))
	if err := sess.Screenshot(ctx, path); err != nil {
		logger.Warn(ctx, "could not save screenshot", zap.String("path", path), zap.Error(err))

		return
	}

	logger.Info(ctx, "screenshot saved", zap.String("path", path))
}
