package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/toqueteos/webbrowser"
	"golang.org/x/sync/errgroup"

	"github.com/wkapp-go/wkapp/components/assets"
	"github.com/wkapp-go/wkapp/internal/bridge"
	"github.com/wkapp-go/wkapp/internal/config"
	"github.com/wkapp-go/wkapp/internal/devserver"
	"github.com/wkapp-go/wkapp/internal/handlers"
	"github.com/wkapp-go/wkapp/internal/logger"
	"github.com/wkapp-go/wkapp/internal/router"
	"github.com/wkapp-go/wkapp/internal/service"
	"github.com/wkapp-go/wkapp/internal/webview/native"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	slogger := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := bridge.NewMapRegistry()
	dispatcher := service.NewDispatcher(ctx, slogger)
	registry.Register(bridge.HandlerInvoke, dispatcher)
	registry.Register(bridge.HandlerConsole, logger.NewConsole(ctx, slogger))

	svc := service.NewWebViewService(native.New, cfg.Title, slogger)
	svc.RegisterTargets(dispatcher)

	views := service.NewViews(ctx, svc, slogger)
	views.RegisterTargets(dispatcher)

	var site http.Handler = http.FileServer(http.FS(assets.Overlay(os.DirFS(cfg.AppDir), assets.DistFS())))
	if cfg.DevURL != "" {
		site, err = devserver.NewProxy(cfg.DevURL)
		if err != nil {
			slogger.Error("invalid dev server", "err", err)
			os.Exit(1)
		}
		slogger.Info("proxying pages to dev server", "dev_url", cfg.DevURL)
	}
	mux := router.New(handlers.New(registry, slogger), views.Middleware(site))

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		slogger.Error("failed to listen", "addr", cfg.Addr(), "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("http://%s", listener.Addr().String())
	slogger.Info("server starting", "addr", addr, "app_dir", cfg.AppDir)

	srv := &http.Server{Handler: mux}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			svc.CloseMainWindow()
		case <-svc.Done():
		}
		return srv.Close()
	})

	if cfg.Browser {
		if err := webbrowser.Open(addr); err != nil {
			slogger.Error("failed to open browser", "err", err)
			svc.CloseMainWindow()
		}
	} else {
		// The UI loop must own the main goroutine.
		err := svc.InitializeWebView(service.WindowOptions{
			URL:     addr,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Debug:   cfg.Debug,
			Scripts: []string{logger.ConsoleScript, service.LifecycleScript},
		}, registry)
		if err != nil {
			slogger.Error("webview failed", "err", err)
			svc.CloseMainWindow()
		}
	}

	if err := g.Wait(); err != nil {
		slogger.Error("server error", "err", err)
		os.Exit(1)
	}
	slogger.Info("window closed, shutting down")
}
