package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/maniraj0007/task-management-app-sub004/pkg/api"
	"github.com/maniraj0007/task-management-app-sub004/pkg/log"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Override the configured listen address",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("listen"))
		},
	}
}

// serve runs the HTTP API until interrupted. Config file changes
// restart the stack so domain and owner changes take effect without a
// manual restart.
func serve(ctx context.Context, configPath, listenOverride string) error {
	logger := log.ForService("serve")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	// Set up filesystem watcher for config file
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close config file watcher: %v", err)
			}
		}()
		if err := watcher.Add(configPath); err != nil {
			logger.Warnf("failed to watch config file %s: %v", configPath, err)
		} else {
			logger.Infof("watching config file for changes: %s", configPath)
		}
	}

	for {
		reload, err := serveOnce(ctx, configPath, listenOverride, sigCh, watcher, logger)
		if err != nil {
			return err
		}
		if !reload {
			return nil
		}
		logger.Infof("restarting with the new configuration")
	}
}

// serveOnce runs one incarnation of the server. It reports whether the
// caller should reload and start again.
func serveOnce(ctx context.Context, configPath, listenOverride string, sigCh chan os.Signal, watcher *fsnotify.Watcher, logger *log.Logger) (bool, error) {
	stack, err := openSearchStack(configPath)
	if err != nil {
		return false, err
	}
	defer stack.Close()

	server := api.NewServer(stack.registry, stack.service, stack.history, api.Options{
		DefaultOwner: stack.cfg.OwnerID,
		Debounce:     stack.cfg.Debounce.Duration,
		SearchLimit:  stack.cfg.SearchLimit,
	})

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	addr := stack.cfg.Server.ListenAddr
	if listenOverride != "" {
		addr = listenOverride
	}
	httpServer := &http.Server{
		Addr:    addr,
		Handler: api.CorsMiddleware(mux),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	shutdown := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}

	var events chan fsnotify.Event
	var watchErrs chan error
	if watcher != nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			_ = shutdown()
			<-serveErr
			return false, nil
		case err := <-serveErr:
			return false, err
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Infof("received SIGHUP, reloading configuration")
				if err := shutdown(); err != nil {
					logger.Warnf("shutdown before reload: %v", err)
				}
				<-serveErr
				return true, nil
			default:
				fmt.Println("\nShutting down...")
				if err := shutdown(); err != nil {
					logger.Warnf("shutdown: %v", err)
				}
				<-serveErr
				return false, nil
			}
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			// React to write, create, rename, and remove events
			// (editors often use atomic writes).
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Infof("config file changed: %s (%s), reloading", event.Name, event.Op)

			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				// Small delay so the replacement file is fully written.
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					logger.Warnf("config file removed and not replaced, skipping reload")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					logger.Warnf("failed to re-add config file to watcher: %v", err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}

			if err := shutdown(); err != nil {
				logger.Warnf("shutdown before reload: %v", err)
			}
			<-serveErr
			return true, nil
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warnf("config file watcher error: %v", err)
		}
	}
}
