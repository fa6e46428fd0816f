package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeRoundTrip(t *testing.T) {
	payload, err := json.Marshal(&ClientCastVote{
		SessionID:  "session-1",
		PlayerName: "ALICE",
		Approve:    true,
	})
	require.NoError(t, err)

	message := &Message{
		ConnectionID: "conn-1",
		Type:         MessageTypeClientCastVote,
		Payload:      payload,
	}

	data, err := SerializeMessage(message)
	require.NoError(t, err)

	got, err := DeserializeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, message.ConnectionID, got.ConnectionID)
	assert.Equal(t, message.Type, got.Type)

	var vote ClientCastVote
	require.NoError(t, json.Unmarshal(got.Payload, &vote))
	assert.Equal(t, "session-1", vote.SessionID)
	assert.Equal(t, "ALICE", vote.PlayerName)
	assert.True(t, vote.Approve)
}

func TestSerializeEmptyPayload(t *testing.T) {
	message := &Message{Type: MessageTypeClientGetState}

	data, err := SerializeMessage(message)
	require.NoError(t, err)

	got, err := DeserializeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeClientGetState, got.Type)
	assert.Empty(t, got.Payload)
}

func TestDeserializeGarbage(t *testing.T) {
	_, err := DeserializeMessage([]byte("not zstd"))
	assert.Error(t, err)
}
