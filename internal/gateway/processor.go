// Package gateway talks to the external payment processor. The contract is
// deliberately narrow: initiate a checkout for an amount and get back a
// redirect URL; everything after the redirect comes in through webhooks.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const initiateTimeout = 5 * time.Second

type Processor struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewProcessor(baseURL string) *Processor {
	return &Processor{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: initiateTimeout},
	}
}

type initiateRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Reference   string `json:"reference"`
}

type initiateResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// Initiate opens a checkout session for amountCents, correlated by ref, and
// returns the URL the payer should be redirected to.
func (p *Processor) Initiate(ctx context.Context, amountCents int64, ref string) (string, error) {
	body, err := json.Marshal(initiateRequest{AmountCents: amountCents, Reference: ref})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment processor unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("payment processor returned status %d", resp.StatusCode)
	}

	var out initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("payment processor returned invalid JSON: %w", err)
	}
	if out.RedirectURL == "" {
		return "", fmt.Errorf("payment processor returned no redirect URL")
	}
	return out.RedirectURL, nil
}
