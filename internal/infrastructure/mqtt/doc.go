// Package mqtt provides MQTT client connectivity for the registry
// restructurer.
//
// This package manages:
//   - Connection to an MQTT broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The restructurer publishes rename and scan events to the broker so
// dashboards and automations can react to naming changes without
// polling the HTTP API. It also listens on the command topic
// (Topics{}.CommandScan()) so a scan can be triggered from the broker
// side; subscriptions survive reconnects.
//
//	Registry Restructurer ⇄ MQTT Broker ⇄ Subscribers (dashboards, automations)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish a rename event
//	topic := mqtt.Topics{}.EntityRenamed()
//	client.Publish(topic, []byte(`{"old":"light.a","new":"light.b"}`), 1, false)
package mqtt
