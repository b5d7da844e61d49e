package mqtt

import (
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/registry-restructurer/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "restructurer-test",
			TLS:      false,
		},
		Auth: config.MQTTAuthConfig{
			Username: "",
			Password: "",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// =============================================================================
// Validation Tests (no broker required)
// =============================================================================

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestPublishValidation(t *testing.T) {
	client := &Client{}

	err := client.Publish("", []byte("test"), 1, false)
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}

	err = client.Publish("test/topic", []byte("test"), 3, false)
	if !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
	}

	oversized := make([]byte, maxPayloadSize+1)
	err = client.Publish("test/topic", oversized, 1, false)
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}

	err = client.Publish("test/topic", []byte("test"), 1, false)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}
	handler := func(string, []byte) error { return nil }

	err := client.Subscribe("", 1, handler)
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() error = %v, want ErrInvalidTopic", err)
	}

	err = client.Subscribe("test/topic", 3, handler)
	if !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe() error = %v, want ErrInvalidQoS", err)
	}

	err = client.Subscribe("test/topic", 1, nil)
	if !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() error = %v, want ErrSubscribeFailed", err)
	}

	err = client.Subscribe("test/topic", 1, handler)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() error = %v, want ErrNotConnected", err)
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	err := client.Unsubscribe("")
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe() error = %v, want ErrInvalidTopic", err)
	}

	err = client.Unsubscribe("test/topic")
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() error = %v, want ErrNotConnected", err)
	}
}

func TestSubscriptionTracking_Empty(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", client.SubscriptionCount())
	}

	if client.HasSubscription("nonexistent/topic") {
		t.Error("HasSubscription() should be false for unsubscribed topic")
	}
}

// =============================================================================
// Options Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("Servers count = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %q, want %q", got, "tcp://127.0.0.1:1883")
	}
	if opts.ClientID != "restructurer-test" {
		t.Errorf("ClientID = %q, want %q", opts.ClientID, "restructurer-test")
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("broker scheme = %q, want %q", got, "ssl")
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig = nil, want configured")
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("restructurer-test")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload missing status field: %s", online)
	}
	if !strings.Contains(online, `"client_id":"restructurer-test"`) {
		t.Errorf("online payload missing client_id: %s", online)
	}

	offline := buildOfflinePayload("restructurer-test")
	if !strings.Contains(offline, `"status":"offline"`) {
		t.Errorf("offline payload missing status field: %s", offline)
	}
	if !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload missing reason: %s", offline)
	}
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name: "EntityRenamed",
			builder: func() string {
				return Topics{}.EntityRenamed()
			},
			expected: "restructurer/event/entity_renamed",
		},
		{
			name: "AreaRenamed",
			builder: func() string {
				return Topics{}.AreaRenamed()
			},
			expected: "restructurer/event/area_renamed",
		},
		{
			name: "DeviceRenamed",
			builder: func() string {
				return Topics{}.DeviceRenamed()
			},
			expected: "restructurer/event/device_renamed",
		},
		{
			name: "ScanCompleted",
			builder: func() string {
				return Topics{}.ScanCompleted()
			},
			expected: "restructurer/event/scan_completed",
		},
		{
			name: "ReferenceFixed",
			builder: func() string {
				return Topics{}.ReferenceFixed()
			},
			expected: "restructurer/event/reference_fixed",
		},
		{
			name: "SystemStatus",
			builder: func() string {
				return Topics{}.SystemStatus()
			},
			expected: "restructurer/system/status",
		},
		{
			name: "CommandScan",
			builder: func() string {
				return Topics{}.CommandScan()
			},
			expected: "restructurer/command/scan",
		},
		{
			name: "AllEvents",
			builder: func() string {
				return Topics{}.AllEvents()
			},
			expected: "restructurer/event/+",
		},
		{
			name: "AllTopics",
			builder: func() string {
				return Topics{}.AllTopics()
			},
			expected: "restructurer/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}
