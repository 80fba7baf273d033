package main

import (
	"context"
	"flag"
	"log"
	"os"

	webclient "github.com/socialrobotics/webclient-core/core"
	"github.com/socialrobotics/webclient-core/core/config"
	"github.com/socialrobotics/webclient-core/core/render/tui"
	"github.com/socialrobotics/webclient-core/core/transport/sicws"
)

const (
	micButtonID   = "mic"
	startButtonID = "start"
)

// activatorShim lets the renderer be built before the client it forwards
// key presses to; the client needs the renderer at construction time.
type activatorShim struct {
	client *webclient.Client
}

func (a *activatorShim) ActivateButton(id string) error {
	if a.client == nil {
		return nil
	}
	return a.client.ActivateButton(id)
}

func main() {
	configPath := flag.String("config", "", "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	initialTurn := webclient.AgentTurn
	if cfg.InitialUserTurn {
		initialTurn = webclient.UserTurn
	}
	semantics := webclient.TurnSemanticsAssign
	if cfg.TurnSemantics == config.SemanticsToggle {
		semantics = webclient.TurnSemanticsToggle
	}

	channel := sicws.New(cfg.ServerURL)

	activator := &activatorShim{}
	renderer := tui.New(activator, micButtonID, startButtonID)

	clientOpts := []webclient.ClientOption{
		webclient.WithTransport(channel),
		webclient.WithRenderer(renderer),
		webclient.WithStartControl(startButtonID, cfg.FollowUpTarget),
		webclient.WithMicrophoneControl(micButtonID),
		webclient.WithInitialTurn(initialTurn),
		webclient.WithTurnSemantics(semantics),
	}
	if cfg.OutOfTurnNotice != "" {
		clientOpts = append(clientOpts, webclient.WithOutOfTurnNotice(cfg.OutOfTurnNotice))
	}

	client := webclient.NewClient(clientOpts...)
	activator.client = client

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = client.Run(ctx,
		webclient.WithConnectionStateChangedCallback(renderer.SetConnected),
		webclient.WithConnectErrorCallback(func(err error) {
			renderer.Notice("connection failed: " + err.Error())
		}),
	)
	if err != nil {
		log.Fatalf("Failed to start client: %v", err)
	}

	if err := channel.Connect(ctx); err != nil {
		log.Printf("Initial connection failed, retrying in background: %v", err)
	}

	if err := renderer.Run(); err != nil {
		log.Printf("UI exited with error: %v", err)
		os.Exit(1)
	}
}
