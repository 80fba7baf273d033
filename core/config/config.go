// Package config handles application configuration for the webserver and
// client binaries.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Turn semantics accepted in configuration.
const (
	SemanticsAssign = "assign"
	SemanticsToggle = "toggle"
)

// Config represents the application configuration. Every field can be set in
// the JSON config file; a matching environment variable overrides it.
type Config struct {
	// ListenAddr is where the webserver binary serves HTTP and websockets.
	ListenAddr string `json:"listen_addr"`
	// ServerURL is the websocket endpoint the client binary connects to.
	ServerURL string `json:"server_url"`

	// Broker settings for the MQTT bridge. An empty BrokerURL disables it.
	BrokerURL      string `json:"broker_url,omitempty"`
	BrokerClientID string `json:"broker_client_id,omitempty"`
	BrokerUsername string `json:"broker_username,omitempty"`
	BrokerPassword string `json:"broker_password,omitempty"`
	TopicPrefix    string `json:"topic_prefix,omitempty"`

	// Interaction behavior.
	InitialUserTurn bool   `json:"initial_user_turn"`
	TurnSemantics   string `json:"turn_semantics"`
	FollowUpTarget  string `json:"follow_up_target"`
	OutOfTurnNotice string `json:"out_of_turn_notice,omitempty"`

	// Microphone affordance image names replayed to frontends.
	MicImageOpen   string `json:"mic_image_open"`
	MicImageClosed string `json:"mic_image_closed"`
}

func defaultConfig() *Config {
	return &Config{
		ListenAddr:     ":8080",
		ServerURL:      "ws://localhost:8080/ws",
		BrokerClientID: "webclient-core",
		TopicPrefix:    "sic",
		TurnSemantics:  SemanticsAssign,
		FollowUpTarget: "recipe_overview.html",
		MicImageOpen:   "mic_open.png",
		MicImageClosed: "mic_closed.png",
	}
}

// Load reads the configuration file at path, applies environment overrides,
// and validates the result. A missing file yields the defaults; an empty
// path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults plus environment.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal config: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.ListenAddr, "WEBCLIENT_LISTEN_ADDR")
	overrideString(&c.ServerURL, "WEBCLIENT_SERVER_URL")
	overrideString(&c.BrokerURL, "WEBCLIENT_BROKER_URL")
	overrideString(&c.BrokerClientID, "WEBCLIENT_BROKER_CLIENT_ID")
	overrideString(&c.BrokerUsername, "WEBCLIENT_BROKER_USERNAME")
	overrideString(&c.BrokerPassword, "WEBCLIENT_BROKER_PASSWORD")
	overrideString(&c.TopicPrefix, "WEBCLIENT_TOPIC_PREFIX")
	overrideString(&c.TurnSemantics, "WEBCLIENT_TURN_SEMANTICS")
	overrideString(&c.FollowUpTarget, "WEBCLIENT_FOLLOW_UP_TARGET")
	overrideString(&c.OutOfTurnNotice, "WEBCLIENT_OUT_OF_TURN_NOTICE")
	overrideString(&c.MicImageOpen, "WEBCLIENT_MIC_IMAGE_OPEN")
	overrideString(&c.MicImageClosed, "WEBCLIENT_MIC_IMAGE_CLOSED")

	if v := os.Getenv("WEBCLIENT_INITIAL_USER_TURN"); v != "" {
		c.InitialUserTurn = v == "true" || v == "1"
	}
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr required")
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server_url required")
	}
	if c.TurnSemantics != SemanticsAssign && c.TurnSemantics != SemanticsToggle {
		return fmt.Errorf("turn_semantics must be %q or %q, got %q", SemanticsAssign, SemanticsToggle, c.TurnSemantics)
	}
	return nil
}

// Save persists the configuration to path.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
