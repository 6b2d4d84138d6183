package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "power_node/docs"
	"power_node/internal/config"
	"power_node/internal/handlers"
	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/mqtt"
	"power_node/internal/repository"
	"power_node/internal/repository/db"
	"power_node/internal/server"
	"power_node/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       Power Node API
// @version                     1.0
// @description                 Hosts simulated area power controllers.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer closeDB(conn, log)

	pub := openPublisher(cfg.MQTT, log)
	defer func() { _ = pub.Close() }()

	// wire dependencies
	m := metrics.NewRegistry()
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, cfg, pub, m, log)
	apiHandler := handlers.NewHandler(services, m, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start simulator (via composed service)
	go services.Simulator.Run(ctx, cfg.Sim.Tick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// openPublisher connects the appearance publisher, falling back to a no-op
// publisher when no broker is configured or the broker is unreachable.
func openPublisher(c config.MQTTConfig, log *logger.Logger) mqtt.Publisher {
	if c.Broker == "" {
		log.Infow("mqtt broker not configured; appearance updates stay local")
		return mqtt.NopPublisher{}
	}
	pub, err := mqtt.NewRealPublisher(mqtt.Options{
		Broker:      c.Broker,
		ClientID:    c.ClientID,
		Username:    c.Username,
		Password:    c.Password,
		TopicPrefix: c.TopicPrefix,
	})
	if err != nil {
		log.Warnw("mqtt unavailable; appearance updates stay local", "broker", c.Broker, "err", err)
		return mqtt.NopPublisher{}
	}
	log.Infow("mqtt connected", "broker", c.Broker, "topic_prefix", c.TopicPrefix)
	return pub
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
