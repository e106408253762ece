package agentgw

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/merchantcare/ticket-service/internal/metrics"
)

// Invoker — interface for handler Deps.
type Invoker interface {
	Invoke(ctx context.Context, ticketID, merchantID, content string) Reply
}

// Client forwards a merchant message to the external automation workflow and
// normalizes whatever comes back. It never returns an error: any failure
// degrades the reply to a fallback text, because the merchant's own message is
// already persisted and the overall request must still succeed.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient returns a gateway client. If webhookURL is empty, Invoke always
// returns the connection fallback.
func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type invokeRequest struct {
	ID         string `json:"_id"`
	MerchantID string `json:"merchant_id"`
	Message    struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Invoke POSTs {_id, merchant_id, message:{content}} to the agent webhook and
// returns the normalized reply. Synchronous and bounded by the client timeout.
func (c *Client) Invoke(ctx context.Context, ticketID, merchantID, content string) Reply {
	if c.webhookURL == "" {
		metrics.AgentGatewayReplies.WithLabelValues(string(OutcomeFallbackTransport)).Inc()
		return ConnectionFallback()
	}
	payload := invokeRequest{ID: ticketID, MerchantID: merchantID}
	payload.Message.Content = content
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("agentgw: marshal: %v", err)
		metrics.AgentGatewayReplies.WithLabelValues(string(OutcomeFallbackTransport)).Inc()
		return ConnectionFallback()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("agentgw: new request: %v", err)
		metrics.AgentGatewayReplies.WithLabelValues(string(OutcomeFallbackTransport)).Inc()
		return ConnectionFallback()
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts land here too; the caller's response must not hang past the bound.
		log.Printf("agentgw: request for ticket %s: %v", ticketID, err)
		metrics.AgentGatewayReplies.WithLabelValues(string(OutcomeFallbackTransport)).Inc()
		return ConnectionFallback()
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("agentgw: read body for ticket %s: %v", ticketID, err)
		metrics.AgentGatewayReplies.WithLabelValues(string(OutcomeFallbackTransport)).Inc()
		return ConnectionFallback()
	}
	reply, outcome := Normalize(resp.StatusCode, respBody)
	if outcome != OutcomeOK {
		log.Printf("agentgw: ticket %s: status %d, outcome %s", ticketID, resp.StatusCode, outcome)
	}
	metrics.AgentGatewayReplies.WithLabelValues(string(outcome)).Inc()
	return reply
}
