package queuepopulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ftrs/dos-migration/internal/migration/events"
	"github.com/ftrs/dos-migration/internal/platform/auth"
)

// Sender delivers one batch of messages.
type Sender interface {
	Send(ctx context.Context, batch *events.Batch) error
}

// HTTPSender posts batches to the migration event endpoint with a
// freshly minted bearer token.
type HTTPSender struct {
	url        string
	signingKey []byte
	client     *http.Client
}

const tokenTTL = 5 * time.Minute

func NewHTTPSender(url string, signingKey []byte) *HTTPSender {
	return &HTTPSender{
		url:        url,
		signingKey: signingKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSender) Send(ctx context.Context, batch *events.Batch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(s.signingKey) > 0 {
		token, err := auth.MintToken(s.signingKey, auth.DefaultIssuer, "queue-populator", []string{auth.ScopeEvents}, tokenTTL)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("event endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
