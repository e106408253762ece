package agentgw

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInvokeSendsExpectedRequest(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"agent_message":"hi there"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	reply := c.Invoke(context.Background(), "TKT-ABC-0001", "MERCH-1", "hello")

	assert.Equal(t, "hi there", reply.Message)
	assert.Equal(t, "TKT-ABC-0001", got["_id"])
	assert.Equal(t, "MERCH-1", got["merchant_id"])
	msg, ok := got["message"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello", msg["content"])
}

func TestClientInvokeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	reply := c.Invoke(context.Background(), "TKT-X", "M", "hello")
	assert.Equal(t, FallbackConnectionMessage, reply.Message)
}

func TestClientInvokeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, 2*time.Second)
	reply := c.Invoke(context.Background(), "TKT-X", "M", "hello")
	assert.Equal(t, FallbackConnectionMessage, reply.Message)
	assert.JSONEq(t, "[]", string(reply.Cards))
}

func TestClientInvokeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() { close(release); srv.Close() }()

	c := NewClient(srv.URL, 50*time.Millisecond)
	start := time.Now()
	reply := c.Invoke(context.Background(), "TKT-X", "M", "hello")
	assert.Less(t, time.Since(start), 2*time.Second, "caller must not hang past the bound")
	assert.Equal(t, FallbackConnectionMessage, reply.Message)
}

func TestClientInvokeUnconfigured(t *testing.T) {
	c := NewClient("", 0)
	reply := c.Invoke(context.Background(), "TKT-X", "M", "hello")
	assert.Equal(t, FallbackConnectionMessage, reply.Message)
}
