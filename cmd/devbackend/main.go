package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-assoc-admin/devbackend"
	"github.com/jrsteele09/go-assoc-admin/internal/config"
	"github.com/jrsteele09/go-assoc-admin/internal/logger"
	"github.com/jrsteele09/go-assoc-admin/token"
	fakeuserrepo "github.com/jrsteele09/go-assoc-admin/users/repofake"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logger.Setup(c.GetLogLevel(), c.GetEnv())
	displayAppname(c.GetAppName())

	var options []devbackend.Option
	if addr := c.GetRevocationsRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		options = append(options, devbackend.WithRevocationList(token.NewRedisRevocationList(client, "assoc-admin")))
		log.Info().Str("addr", addr).Msg("Sharing token revocations through redis")
	}

	handler, err := devbackend.New(c, fakeuserrepo.NewFakeUserRepo(), options...)
	if err != nil {
		return fmt.Errorf("devbackend.New: %w", err)
	}

	server := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(server) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
