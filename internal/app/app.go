package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/foxnuts/internal/prefs"
	"github.com/five82/foxnuts/internal/ui"
)

const shutdownGrace = 3 * time.Second

// Run boots the foxnuts TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	shop, err := New(opts)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = shop.Close(closeCtx)
	}()

	userPrefs := prefs.Load(opts.PrefsPath)

	// Remote wins on the initial load only; later mutations are mirrored.
	shop.Wishlist.Hydrate()
	shop.StartSessionWatch(ctx, 0)

	if addr := shop.Config.MetricsAddr; addr != "" {
		stop, err := serveMetrics(addr, shop.Registry, shop.Logger)
		if err != nil {
			return fmt.Errorf("start metrics listener: %w", err)
		}
		defer stop()
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Actions:   shop,
		Catalog:   shop.Catalog,
		Cart:      shop.Cart,
		Wishlist:  shop.Wishlist,
		View:      shop.View,
		Logger:    shop.Logger,
		ThemeName: userPrefs.Theme,
		StartView: userPrefs.View,
		PrefsPath: opts.PrefsPath,
	})
}

// serveMetrics exposes reg on addr under /metrics. The returned function
// shuts the listener down.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener stopped", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
