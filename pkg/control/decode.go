package control

import "encoding/json"

// Decode narrows an untyped push payload into a typed Event. It is the only
// place raw server data is touched: every field is coerced defensively, so
// malformed payloads produce safe defaults instead of a crash. Unrecognized
// event types return (nil, false) and must have no other effect.
//
// eventType is the SSE event name; if the JSON body carries its own "type"
// field that value wins, matching how the server tags events both ways.
func Decode(eventType string, data []byte) (Event, bool) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		fields = map[string]any{}
	}

	if t := asString(fields["type"]); t != "" {
		eventType = t
	}

	switch eventType {
	case "status":
		return Status(ParseRunState(asString(fields["state"])), asInt(fields["queue_len"])), true
	case "user_message":
		return UserMessage(asString(fields["id"]), asString(fields["content"])), true
	case "assistant_message":
		return AssistantMessage(
			asString(fields["id"]),
			asString(fields["content"]),
			asBool(fields["success"]),
			asUint(fields["cost_cents"]),
			asString(fields["model"]),
		), true
	case "tool_call":
		return ToolCall(asString(fields["tool_call_id"]), asString(fields["name"]), asRaw(fields["args"])), true
	case "tool_result":
		// A result event always answers its call: a missing or JSON-null
		// result still means "cancelled / no selection", never "absent".
		result := asRaw(fields["result"])
		if result == nil {
			result = json.RawMessage("null")
		}
		return ToolResult(asString(fields["tool_call_id"]), asString(fields["name"]), result), true
	case "error":
		return Error(asString(fields["message"])), true
	default:
		return nil, false
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asInt coerces a JSON number to a non-negative int, 0 otherwise.
func asInt(v any) int {
	f, _ := v.(float64)
	if f < 0 {
		return 0
	}
	return int(f)
}

func asUint(v any) uint64 {
	f, _ := v.(float64)
	if f < 0 {
		return 0
	}
	return uint64(f)
}

// asRaw re-encodes an arbitrary JSON value so downstream consumers can
// unmarshal it into their own shapes. Absent values stay nil; an explicit
// null round-trips as the literal "null", which is distinct from absent.
func asRaw(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
