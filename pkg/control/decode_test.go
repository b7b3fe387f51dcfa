package control

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatus(t *testing.T) {
	event, ok := Decode("status", []byte(`{"state":"running","queue_len":3}`))
	require.True(t, ok)

	status, ok := event.(*StatusEvent)
	require.True(t, ok)
	assert.Equal(t, RunStateRunning, status.State)
	assert.Equal(t, 3, status.QueueLen)
}

func TestDecodeStatusDefaults(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		state    RunState
		queueLen int
	}{
		{"unknown state falls back to idle", `{"state":"rebooting","queue_len":1}`, RunStateIdle, 1},
		{"missing fields", `{}`, RunStateIdle, 0},
		{"mistyped queue_len", `{"state":"idle","queue_len":"many"}`, RunStateIdle, 0},
		{"negative queue_len", `{"state":"idle","queue_len":-4}`, RunStateIdle, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := Decode("status", []byte(tt.data))
			require.True(t, ok)

			status := event.(*StatusEvent)
			assert.Equal(t, tt.state, status.State)
			assert.Equal(t, tt.queueLen, status.QueueLen)
		})
	}
}

func TestDecodeTypeFieldWins(t *testing.T) {
	event, ok := Decode("message", []byte(`{"type":"user_message","id":"m1","content":"hi"}`))
	require.True(t, ok)

	msg, ok := event.(*UserMessageEvent)
	require.True(t, ok)
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "hi", msg.Content)
}

func TestDecodeAssistantMessage(t *testing.T) {
	data := `{"id":"a1","content":"done","success":true,"cost_cents":42,"model":"large"}`
	event, ok := Decode("assistant_message", []byte(data))
	require.True(t, ok)

	msg := event.(*AssistantMessageEvent)
	assert.Equal(t, "a1", msg.ID)
	assert.Equal(t, "done", msg.Content)
	assert.True(t, msg.Success)
	assert.Equal(t, uint64(42), msg.CostCents)
	assert.Equal(t, "large", msg.Model)
}

func TestDecodeToolCall(t *testing.T) {
	data := `{"tool_call_id":"tc1","name":"ui_optionList","args":{"options":["a","b"]}}`
	event, ok := Decode("tool_call", []byte(data))
	require.True(t, ok)

	call := event.(*ToolCallEvent)
	assert.Equal(t, "tc1", call.ToolCallID)
	assert.Equal(t, "ui_optionList", call.Name)
	assert.JSONEq(t, `{"options":["a","b"]}`, string(call.Args))
}

func TestDecodeToolResultNullMeansCancelled(t *testing.T) {
	t.Run("explicit null", func(t *testing.T) {
		event, ok := Decode("tool_result", []byte(`{"tool_call_id":"tc1","name":"ui_optionList","result":null}`))
		require.True(t, ok)

		result := event.(*ToolResultEvent)
		assert.Equal(t, json.RawMessage("null"), result.Result)
	})

	t.Run("missing result", func(t *testing.T) {
		event, ok := Decode("tool_result", []byte(`{"tool_call_id":"tc1","name":"ui_optionList"}`))
		require.True(t, ok)

		result := event.(*ToolResultEvent)
		assert.Equal(t, json.RawMessage("null"), result.Result)
	})

	t.Run("real selection", func(t *testing.T) {
		event, ok := Decode("tool_result", []byte(`{"tool_call_id":"tc1","result":{"selected":"a"}}`))
		require.True(t, ok)

		result := event.(*ToolResultEvent)
		assert.JSONEq(t, `{"selected":"a"}`, string(result.Result))
	})
}

func TestDecodeUnrecognizedType(t *testing.T) {
	event, ok := Decode("heartbeat", []byte(`{"ts":123}`))
	assert.False(t, ok)
	assert.Nil(t, event)
}

func TestDecodeMalformedPayload(t *testing.T) {
	event, ok := Decode("status", []byte(`not json at all`))
	require.True(t, ok)

	status := event.(*StatusEvent)
	assert.Equal(t, RunStateIdle, status.State)
	assert.Equal(t, 0, status.QueueLen)
}

func TestParseRunState(t *testing.T) {
	assert.Equal(t, RunStateRunning, ParseRunState("running"))
	assert.Equal(t, RunStateWaitingForTool, ParseRunState("waiting_for_tool"))
	assert.Equal(t, RunStateIdle, ParseRunState("idle"))
	assert.Equal(t, RunStateIdle, ParseRunState(""))
	assert.Equal(t, RunStateIdle, ParseRunState("RUNNING"))
}
