// Package verify wraps the external verification collaborators consulted
// at final submission: an email-deliverability checker, a phone-number
// validator and a human-verification challenge.
//
// All checks fail closed: a network error or timeout counts as "not
// verified". Outages are still logged distinctly from genuine rejections
// so telemetry can tell the two apart.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrUnavailable marks a collaborator outage (network error, timeout,
// non-2xx response) as opposed to a genuine invalidity determination.
var ErrUnavailable = errors.New("verification service unavailable")

const defaultTimeout = 10 * time.Second

// Options configures the external collaborators. Empty URL or key disables
// the corresponding check.
type Options struct {
	EmailAPIURL    string
	EmailAPIKey    string
	PhoneAPIURL    string
	PhoneAPIKey    string
	HumanSecretKey string
	HumanMinScore  float64
	Timeout        time.Duration

	// test seam
	humanVerifyURLOverride string
}

type Verifier struct {
	opts   Options
	client *http.Client
}

func New(opts Options) *Verifier {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HumanMinScore <= 0 {
		opts.HumanMinScore = 0.5
	}
	return &Verifier{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// HumanConfigured reports whether a human-verification secret is set.
func (v *Verifier) HumanConfigured() bool {
	return v.opts.HumanSecretKey != ""
}

// CheckEmail asks the deliverability collaborator whether the address can
// receive mail. Returns ErrUnavailable on outage.
func (v *Verifier) CheckEmail(ctx context.Context, email string) (bool, error) {
	if v.opts.EmailAPIURL == "" || v.opts.EmailAPIKey == "" {
		slog.Debug("email deliverability check disabled, skipping", "email", email)
		return true, nil
	}

	endpoint := fmt.Sprintf("%s?api_key=%s&email=%s",
		v.opts.EmailAPIURL, url.QueryEscape(v.opts.EmailAPIKey), url.QueryEscape(email))

	var result struct {
		Deliverability string `json:"deliverability"`
	}
	if err := v.getJSON(ctx, endpoint, &result); err != nil {
		return false, err
	}
	return result.Deliverability == "DELIVERABLE", nil
}

// CheckPhone asks the phone-validation collaborator whether the number is
// real. Returns ErrUnavailable on outage.
func (v *Verifier) CheckPhone(ctx context.Context, phone string) (bool, error) {
	if v.opts.PhoneAPIURL == "" || v.opts.PhoneAPIKey == "" {
		slog.Debug("phone validation check disabled, skipping", "phone", phone)
		return true, nil
	}

	endpoint := fmt.Sprintf("%s?api_key=%s&phone=%s",
		v.opts.PhoneAPIURL, url.QueryEscape(v.opts.PhoneAPIKey), url.QueryEscape(phone))

	var result struct {
		Valid bool `json:"valid"`
	}
	if err := v.getJSON(ctx, endpoint, &result); err != nil {
		return false, err
	}
	return result.Valid, nil
}

func (v *Verifier) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Failure reports which submission checks did not pass.
type Failure struct {
	Checks []string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("verification failed: %v", f.Checks)
}

// VerifySubmission runs the human gate and the email and phone checks
// concurrently, bounded by the configured timeout. Any failing or
// unavailable check blocks submission; the caller surfaces a retryable
// message and the order draft stays editable.
func (v *Verifier) VerifySubmission(ctx context.Context, email, phone, humanToken string) error {
	ctx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	var emailOK, phoneOK, humanOK bool

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ok, err := v.CheckEmail(ctx, email)
		if err != nil {
			slog.Warn("email verification unavailable, failing closed", "error", err)
			return nil
		}
		if !ok {
			slog.Info("email verification rejected address", "email", email)
		}
		emailOK = ok
		return nil
	})
	g.Go(func() error {
		ok, err := v.CheckPhone(ctx, phone)
		if err != nil {
			slog.Warn("phone verification unavailable, failing closed", "error", err)
			return nil
		}
		if !ok {
			slog.Info("phone verification rejected number", "phone", phone)
		}
		phoneOK = ok
		return nil
	})
	g.Go(func() error {
		ok, err := v.VerifyHuman(ctx, humanToken)
		if err != nil {
			slog.Warn("human verification unavailable, failing closed", "error", err)
			return nil
		}
		humanOK = ok
		return nil
	})

	// The goroutines swallow their errors after logging; Wait only
	// propagates context cancellation.
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var failed []string
	if !humanOK {
		failed = append(failed, "human")
	}
	if !emailOK {
		failed = append(failed, "email")
	}
	if !phoneOK {
		failed = append(failed, "phone")
	}
	if len(failed) > 0 {
		return &Failure{Checks: failed}
	}
	return nil
}
