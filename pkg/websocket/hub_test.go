package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func connect(t *testing.T, hub *Hub, audience string) *Client {
	t.Helper()
	client := NewClient(hub, nil, audience)
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.AudienceSize(audience) > 0
	}, time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case payload := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHubBroadcastReachesAudience(t *testing.T) {
	hub := startHub(t)
	responder := connect(t, hub, AudienceResponders)

	assert.Equal(t, "welcome", receive(t, responder).Type)

	hub.Broadcast(AudienceResponders, "updateResponder", map[string]interface{}{"caseId": "CASE-1-ABCDEFGHI"})

	msg := receive(t, responder)
	assert.Equal(t, "updateResponder", msg.Type)
	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "CASE-1-ABCDEFGHI", data["caseId"])
}

func TestHubAudiencesAreIsolated(t *testing.T) {
	hub := startHub(t)
	tourist := connect(t, hub, AudienceTourists)
	responder := connect(t, hub, AudienceResponders)

	assert.Equal(t, "welcome", receive(t, tourist).Type)
	assert.Equal(t, "welcome", receive(t, responder).Type)

	hub.Broadcast(AudienceTourists, "alert", map[string]interface{}{"name": "Alice"})

	assert.Equal(t, "alert", receive(t, tourist).Type)

	// Responder feed stays quiet.
	select {
	case payload := <-responder.send:
		t.Fatalf("responder unexpectedly received: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastToEmptyAudience(t *testing.T) {
	hub := startHub(t)

	assert.NotPanics(t, func() {
		hub.Broadcast(AudienceResponders, "updateResponder", map[string]interface{}{})
	})
}

func TestHubSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	responder := connect(t, hub, AudienceResponders)

	// Fill the buffer without draining; one extra broadcast drops the client
	// instead of blocking the fanout.
	for i := 0; i < cap(responder.send); i++ {
		hub.Broadcast(AudienceResponders, "updateResponder", map[string]interface{}{"seq": i})
	}
	hub.Broadcast(AudienceResponders, "updateResponder", map[string]interface{}{"seq": "overflow"})

	assert.Equal(t, 0, hub.AudienceSize(AudienceResponders))
}
