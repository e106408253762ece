package agentgw

import (
	"bytes"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// The automation workflow's response shape is not contractually fixed across
// versions: fields arrive in snake_case or camelCase, sometimes wrapped in an
// "output" object, sometimes as plain text, sometimes not at all. Normalize
// absorbs all of that here so the rest of the flow never branches on shape.

const (
	// FallbackConnectionMessage replaces the reply on transport errors,
	// timeouts and non-2xx responses.
	FallbackConnectionMessage = "I'm having trouble connecting to the support system. Please try again."

	// DefaultAgentMessage replaces the reply when the agent answered but no
	// usable message could be extracted (empty body, missing field, oversized
	// raw text).
	DefaultAgentMessage = "Your request is being processed. Please wait a moment."

	// rawBodyLimit caps how long a non-JSON body may be to still be used
	// verbatim as the reply.
	rawBodyLimit = 2000
)

// Outcome labels one normalization result, for metrics.
type Outcome string

const (
	OutcomeOK                Outcome = "ok"
	OutcomeFallbackStatus    Outcome = "fallback_status"
	OutcomeFallbackTransport Outcome = "fallback_transport"
	OutcomeFallbackEmpty     Outcome = "fallback_empty"
	OutcomeRawBody           Outcome = "raw_body"
	OutcomeFallbackOversize  Outcome = "fallback_oversize"
)

// Reply is the fixed internal shape every agent response is normalized into.
type Reply struct {
	Message         string
	Cards           datatypes.JSON
	ToolsUsed       []string
	ActionsTaken    []string
	Reasoning       datatypes.JSON
	ConfidenceScore *float64
	ComplexityScore *float64
}

func emptyReply(message string) Reply {
	return Reply{
		Message:      message,
		Cards:        datatypes.JSON("[]"),
		ToolsUsed:    []string{},
		ActionsTaken: []string{},
	}
}

// ConnectionFallback is the reply used when the agent could not be reached.
func ConnectionFallback() Reply {
	return emptyReply(FallbackConnectionMessage)
}

// StaticReply builds a reply carrying only a fixed text, for paths that skip
// the agent entirely (escalated tickets).
func StaticReply(message string) Reply {
	return emptyReply(message)
}

// Normalize turns a raw HTTP response from the agent into a Reply. It never fails.
func Normalize(statusCode int, body []byte) (Reply, Outcome) {
	if statusCode < 200 || statusCode > 299 {
		return emptyReply(FallbackConnectionMessage), OutcomeFallbackStatus
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return emptyReply(DefaultAgentMessage), OutcomeFallbackEmpty
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		if json.Valid(trimmed) {
			// Parsed as JSON but not an object (array, bare string, number):
			// there are no fields to read, so everything defaults.
			return emptyReply(DefaultAgentMessage), OutcomeOK
		}
		raw := strings.TrimSpace(string(body))
		if len(raw) > 0 && len(raw) < rawBodyLimit {
			return emptyReply(raw), OutcomeRawBody
		}
		return emptyReply(DefaultAgentMessage), OutcomeFallbackOversize
	}

	// Some agent versions wrap the payload in an "output" object.
	if out, ok := fields["output"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(out, &inner); err == nil && inner != nil {
			fields = inner
		}
	}

	r := Reply{
		Message:         firstString(fields, DefaultAgentMessage, "agent_message", "agentMessage", "message", "response"),
		Cards:           rawField(fields, "cards", datatypes.JSON("[]")),
		ToolsUsed:       firstStringSlice(fields, "tools_used", "toolsUsed"),
		ActionsTaken:    firstStringSlice(fields, "actions_taken", "actionsTaken"),
		Reasoning:       rawField(fields, "reasoning", nil),
		ConfidenceScore: firstFloat(fields, "confidence_score", "confidenceScore"),
		ComplexityScore: firstFloat(fields, "complexity_score", "complexityScore"),
	}
	return r, OutcomeOK
}

func firstString(fields map[string]json.RawMessage, def string, keys ...string) string {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return def
}

func firstStringSlice(fields map[string]json.RawMessage, keys ...string) []string {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var out []string
		if err := json.Unmarshal(raw, &out); err == nil && out != nil {
			return out
		}
	}
	return []string{}
}

func firstFloat(fields map[string]json.RawMessage, keys ...string) *float64 {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return &f
		}
	}
	return nil
}

func rawField(fields map[string]json.RawMessage, key string, def datatypes.JSON) datatypes.JSON {
	raw, ok := fields[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return def
	}
	if !json.Valid(raw) {
		return def
	}
	return datatypes.JSON(raw)
}
