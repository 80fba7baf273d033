package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialrobotics/webclient-core/core/broker/mqttbridge"
	"github.com/socialrobotics/webclient-core/core/config"
	"github.com/socialrobotics/webclient-core/core/webserver"
)

func main() {
	configPath := flag.String("config", "", "path to the JSON config file")
	flag.Parse()

	log.Println("Starting webserver...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var bridge *mqttbridge.Bridge

	component := webserver.NewComponent(
		webserver.WithInitialUserTurn(cfg.InitialUserTurn),
		webserver.WithMicrophoneImages(cfg.MicImageOpen, cfg.MicImageClosed),
		webserver.WithButtonClickedCallback(func(button string) {
			if bridge != nil {
				bridge.PublishButtonClick(button)
			}
		}),
	)

	var broker *mqttbridge.Client
	if cfg.BrokerURL != "" {
		broker = mqttbridge.NewClient(mqttbridge.ClientConfig{
			BrokerURL: cfg.BrokerURL,
			ClientID:  cfg.BrokerClientID,
			Username:  cfg.BrokerUsername,
			Password:  cfg.BrokerPassword,
		})
		bridge = mqttbridge.NewBridge(broker, component, cfg.TopicPrefix)

		// Subscriptions fail until the broker connection is up, so keep
		// retrying in the background.
		go func() {
			for {
				if broker.IsConnected() {
					if err := bridge.Start(); err == nil {
						return
					}
				}
				time.Sleep(time.Second)
			}
		}()
	}

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: component.Handler(),
	}

	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shut down cleanly: %v", err)
	}

	if broker != nil {
		if bridge != nil {
			bridge.Stop()
		}
		broker.Disconnect(250)
	}
}
