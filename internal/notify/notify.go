// Package notify delivers customer notifications. Delivery is strictly
// best-effort: Dispatch runs in the background and a failed send is
// logged, never surfaced to the request that triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type Notification struct {
	Target  string `json:"target"` // phone number or email of the recipient
	Message string `json:"message"`
}

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// GatewayNotifier posts messages to an external messaging gateway
// (WhatsApp/SMS bridge). Authorization is a static token header.
type GatewayNotifier struct {
	httpClient *http.Client
	gatewayURL string
	token      string
}

func NewGatewayNotifier(gatewayURL, token string) *GatewayNotifier {
	return &GatewayNotifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		gatewayURL: gatewayURL,
		token:      token,
	}
}

func (g *GatewayNotifier) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.gatewayURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", g.token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// LogNotifier is the fallback when no gateway is configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, n Notification) error {
	log.Printf("notify (log only) target=%s message=%q", n.Target, n.Message)
	return nil
}

// Dispatch fires a notification without blocking the caller. The
// request's context is not reused: the send must outlive the response.
func Dispatch(notifier Notifier, n Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := notifier.Send(ctx, n); err != nil {
			log.Printf("notification failed target=%s: %v", n.Target, err)
		}
	}()
}
