package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type humanVerifyResponse struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// VerifyHuman checks a challenge token with the verification provider and
// gates it on the configured minimum score. The decision is made here, on
// the server; a client-supplied "verified" flag is never trusted.
func (v *Verifier) VerifyHuman(ctx context.Context, token string) (bool, error) {
	if v.opts.HumanSecretKey == "" {
		slog.Warn("human verification secret not configured, skipping challenge")
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	form := url.Values{
		"secret":   {v.opts.HumanSecretKey},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.humanVerifyURL(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var result humanVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !result.Success {
		slog.Info("human verification challenge failed", "error_codes", result.ErrorCodes)
		return false, nil
	}
	return result.Score >= v.opts.HumanMinScore, nil
}

func (v *Verifier) humanVerifyURL() string {
	if v.opts.humanVerifyURLOverride != "" {
		return v.opts.humanVerifyURLOverride
	}
	return siteVerifyURL
}
