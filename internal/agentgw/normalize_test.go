package agentgw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNon2xxFallsBack(t *testing.T) {
	for _, code := range []int{400, 404, 500, 502, 503} {
		r, outcome := Normalize(code, []byte(`{"agent_message":"should be ignored"}`))
		assert.Equal(t, FallbackConnectionMessage, r.Message, "status %d", code)
		assert.Equal(t, OutcomeFallbackStatus, outcome)
	}
}

func TestNormalizeEmptyBody(t *testing.T) {
	for _, body := range [][]byte{nil, {}, []byte("   \n\t ")} {
		r, outcome := Normalize(200, body)
		assert.Equal(t, "Your request is being processed. Please wait a moment.", r.Message)
		assert.Equal(t, OutcomeFallbackEmpty, outcome)
		assert.JSONEq(t, "[]", string(r.Cards))
		assert.Empty(t, r.ToolsUsed)
		assert.NotNil(t, r.ToolsUsed)
	}
}

func TestNormalizeSnakeCaseFields(t *testing.T) {
	body := `{
		"agent_message": "Refund issued.",
		"cards": [{"type":"refund","amount":12.5}],
		"tools_used": ["orders.lookup","payments.refund"],
		"actions_taken": ["refund_created"],
		"reasoning": {"steps": 2},
		"confidence_score": 0.92,
		"complexity_score": 0.4
	}`
	r, outcome := Normalize(200, []byte(body))
	assert.Equal(t, OutcomeOK, outcome)
	assert.Equal(t, "Refund issued.", r.Message)
	assert.JSONEq(t, `[{"type":"refund","amount":12.5}]`, string(r.Cards))
	assert.Equal(t, []string{"orders.lookup", "payments.refund"}, r.ToolsUsed)
	assert.Equal(t, []string{"refund_created"}, r.ActionsTaken)
	assert.JSONEq(t, `{"steps":2}`, string(r.Reasoning))
	require.NotNil(t, r.ConfidenceScore)
	assert.InDelta(t, 0.92, *r.ConfidenceScore, 1e-9)
	require.NotNil(t, r.ComplexityScore)
	assert.InDelta(t, 0.4, *r.ComplexityScore, 1e-9)
}

func TestNormalizeCamelCaseAliases(t *testing.T) {
	body := `{
		"agentMessage": "Hello",
		"toolsUsed": ["kb.search"],
		"actionsTaken": ["note_added"],
		"confidenceScore": 1,
		"complexityScore": 0.1
	}`
	r, outcome := Normalize(200, []byte(body))
	assert.Equal(t, OutcomeOK, outcome)
	assert.Equal(t, "Hello", r.Message)
	assert.Equal(t, []string{"kb.search"}, r.ToolsUsed)
	assert.Equal(t, []string{"note_added"}, r.ActionsTaken)
	require.NotNil(t, r.ConfidenceScore)
	assert.InDelta(t, 1.0, *r.ConfidenceScore, 1e-9)
}

func TestNormalizeMessageAliasPriority(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"agent_message":"a","agentMessage":"b","message":"c","response":"d"}`, "a"},
		{`{"agentMessage":"b","message":"c","response":"d"}`, "b"},
		{`{"message":"c","response":"d"}`, "c"},
		{`{"response":"d"}`, "d"},
		{`{"agent_message":"","message":"c"}`, "c"},
		{`{"cards":[]}`, DefaultAgentMessage},
	}
	for _, tc := range cases {
		r, _ := Normalize(200, []byte(tc.body))
		assert.Equal(t, tc.want, r.Message, "body %s", tc.body)
	}
}

func TestNormalizeOutputWrapper(t *testing.T) {
	body := `{"output":{"agent_message":"wrapped","tools_used":["x"]}}`
	r, outcome := Normalize(200, []byte(body))
	assert.Equal(t, OutcomeOK, outcome)
	assert.Equal(t, "wrapped", r.Message)
	assert.Equal(t, []string{"x"}, r.ToolsUsed)
}

func TestNormalizeNullReasoningStaysNil(t *testing.T) {
	r, _ := Normalize(200, []byte(`{"message":"ok","reasoning":null}`))
	assert.Nil(t, r.Reasoning)
	assert.Nil(t, r.ConfidenceScore)
	assert.Nil(t, r.ComplexityScore)
}

func TestNormalizeRawTextBody(t *testing.T) {
	raw := strings.Repeat("x", 120)
	r, outcome := Normalize(200, []byte(raw))
	assert.Equal(t, OutcomeRawBody, outcome)
	assert.Equal(t, raw, r.Message)
	assert.JSONEq(t, "[]", string(r.Cards))
}

func TestNormalizeOversizedRawBody(t *testing.T) {
	r, outcome := Normalize(200, []byte(strings.Repeat("x", 3000)))
	assert.Equal(t, OutcomeFallbackOversize, outcome)
	assert.Equal(t, DefaultAgentMessage, r.Message)

	// bound is exclusive
	r, outcome = Normalize(200, []byte(strings.Repeat("x", 2000)))
	assert.Equal(t, OutcomeFallbackOversize, outcome)
	assert.Equal(t, DefaultAgentMessage, r.Message)

	r, outcome = Normalize(200, []byte(strings.Repeat("x", 1999)))
	assert.Equal(t, OutcomeRawBody, outcome)
	assert.Equal(t, strings.Repeat("x", 1999), r.Message)
}

func TestNormalizeJSONNonObjectDefaults(t *testing.T) {
	for _, body := range []string{`[1,2,3]`, `"just a string"`, `42`} {
		r, outcome := Normalize(200, []byte(body))
		assert.Equal(t, OutcomeOK, outcome, "body %s", body)
		assert.Equal(t, DefaultAgentMessage, r.Message, "body %s", body)
	}
}

func TestNormalizeInvalidTypedFieldsDefault(t *testing.T) {
	// wrong types are ignored, not propagated
	r, _ := Normalize(200, []byte(`{"message":"ok","tools_used":"not-a-list","confidence_score":"high"}`))
	assert.Equal(t, "ok", r.Message)
	assert.Empty(t, r.ToolsUsed)
	assert.Nil(t, r.ConfidenceScore)
}
