package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// fakePlatform is a websocket test server speaking the registry
// command protocol.
type fakePlatform struct {
	t        *testing.T
	token    string
	handlers map[string]func(cmd map[string]any) serverMessage
}

func newFakePlatform(t *testing.T) *fakePlatform {
	return &fakePlatform{
		t:        t,
		token:    "secret-token",
		handlers: make(map[string]func(cmd map[string]any) serverMessage),
	}
}

func (f *fakePlatform) handle(cmdType string, fn func(cmd map[string]any) serverMessage) {
	f.handlers[cmdType] = fn
}

func (f *fakePlatform) start() (*httptest.Server, string) {
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close() //nolint:errcheck // Test server teardown

		if err := conn.WriteJSON(map[string]any{"type": msgTypeAuthRequired, "ha_version": "2025.8.0"}); err != nil {
			return
		}

		var auth map[string]any
		if err := conn.ReadJSON(&auth); err != nil {
			return
		}
		if auth["access_token"] != f.token {
			conn.WriteJSON(map[string]any{"type": msgTypeAuthInvalid, "message": "Invalid access token"}) //nolint:errcheck
			return
		}
		if err := conn.WriteJSON(map[string]any{"type": msgTypeAuthOK, "ha_version": "2025.8.0"}); err != nil {
			return
		}

		for {
			var cmd map[string]any
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			cmdType, _ := cmd["type"].(string)
			handler, ok := f.handlers[cmdType]
			if !ok {
				f.t.Errorf("unexpected command %q", cmdType)
				return
			}
			resp := handler(cmd)
			resp.ID = int64(cmd["id"].(float64))
			resp.Type = msgTypeResult
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return server, wsURL
}

func okResult(result any) serverMessage {
	raw, _ := json.Marshal(result)
	return serverMessage{Success: true, Result: raw}
}

func connectedClient(t *testing.T, platform *fakePlatform) *Client {
	t.Helper()
	server, wsURL := platform.start()
	t.Cleanup(server.Close)

	client := NewClient(wsURL, platform.token)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test teardown
	return client
}

func TestConnectAuthFailure(t *testing.T) {
	platform := newFakePlatform(t)
	server, wsURL := platform.start()
	defer server.Close()

	client := NewClient(wsURL, "wrong-token")
	err := client.Connect(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Connect() error = %v, want ErrAuthFailed", err)
	}
}

func TestListAreas(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle(cmdAreaList, func(map[string]any) serverMessage {
		return okResult([]map[string]any{
			{"area_id": "area_buro", "name": "Büro"},
			{"area_id": "area_garten", "name": "Garten"},
		})
	})

	client := connectedClient(t, platform)

	areas, err := client.ListAreas(context.Background())
	if err != nil {
		t.Fatalf("ListAreas() error = %v", err)
	}
	if len(areas) != 2 || areas[0].AreaID != "area_buro" || areas[0].Name != "Büro" {
		t.Errorf("ListAreas() = %+v", areas)
	}
}

func TestUpdateEntityRename(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle(cmdEntityUpdate, func(cmd map[string]any) serverMessage {
		if cmd["entity_id"] != "light.alt" {
			return serverMessage{Error: &CommandError{Code: "not_found", Message: "entity not found"}}
		}
		if cmd["new_entity_id"] != "light.neu" || cmd["name"] != "Neu" {
			return serverMessage{Error: &CommandError{Code: "invalid_format", Message: "bad update"}}
		}
		return okResult(map[string]any{
			"entity_entry": map[string]any{"entity_id": "light.neu", "id": "reg1", "name": "Neu"},
		})
	})

	client := connectedClient(t, platform)

	entity, err := client.RenameEntity(context.Background(), "light.alt", "light.neu", "Neu")
	if err != nil {
		t.Fatalf("RenameEntity() error = %v", err)
	}
	if entity.EntityID != "light.neu" || entity.ID != "reg1" {
		t.Errorf("RenameEntity() = %+v", entity)
	}
}

func TestUpdateEntityNotFound(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle(cmdEntityUpdate, func(map[string]any) serverMessage {
		return serverMessage{Error: &CommandError{Code: "not_found", Message: "entity not found"}}
	})

	client := connectedClient(t, platform)

	_, err := client.UpdateEntity(context.Background(), "light.weg", EntityUpdate{Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateEntity() error = %v, want ErrNotFound", err)
	}
}

func TestCommandErrorIsExternalCall(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle(cmdAreaUpdate, func(map[string]any) serverMessage {
		return serverMessage{Error: &CommandError{Code: "home_assistant_error", Message: "boom"}}
	})

	client := connectedClient(t, platform)

	err := client.UpdateArea(context.Background(), "area_buro", "Office")
	if !errors.Is(err, ErrExternalCall) {
		t.Errorf("UpdateArea() error = %v, want ErrExternalCall", err)
	}
}

func TestConcurrentCallsCorrelate(t *testing.T) {
	platform := newFakePlatform(t)
	platform.handle(cmdAreaList, func(map[string]any) serverMessage {
		return okResult([]map[string]any{{"area_id": "a", "name": "A"}})
	})
	platform.handle(cmdDeviceList, func(map[string]any) serverMessage {
		return okResult([]map[string]any{{"id": "d1"}, {"id": "d2"}})
	})

	client := connectedClient(t, platform)
	ctx := context.Background()

	done := make(chan error, 2)
	go func() {
		areas, err := client.ListAreas(ctx)
		if err == nil && len(areas) != 1 {
			err = errors.New("wrong area count")
		}
		done <- err
	}()
	go func() {
		devices, err := client.ListDevices(ctx)
		if err == nil && len(devices) != 2 {
			err = errors.New("wrong device count")
		}
		done <- err
	}()

	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent call %d: %v", i, err)
		}
	}
}

func TestCallAfterClose(t *testing.T) {
	platform := newFakePlatform(t)
	client := connectedClient(t, platform)
	client.Close() //nolint:errcheck // Deliberate close

	_, err := client.ListAreas(context.Background())
	if !errors.Is(err, ErrNotConnected) && !errors.Is(err, ErrExternalCall) {
		t.Errorf("ListAreas() after close error = %v, want ErrNotConnected or ErrExternalCall", err)
	}
}
