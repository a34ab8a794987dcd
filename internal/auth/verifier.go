// Package auth verifies the opaque identity tokens the frontend obtains
// from the chat platform's login SDK. The platform exposes a verify
// endpoint; we delegate to it rather than parsing the token ourselves.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid identity token")

// Profile is the verified identity: Sub is the platform user id.
type Profile struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

// Verifier checks an identity token against an expected audience.
// Privileged handlers must never substitute a caller-supplied uid for a
// failed verification.
type Verifier interface {
	Verify(ctx context.Context, idToken, audience string) (*Profile, error)
}

// HTTPVerifier posts the token to the platform's verify endpoint.
type HTTPVerifier struct {
	verifyURL string
	client    *http.Client
}

func NewHTTPVerifier(verifyURL string) *HTTPVerifier {
	return &HTTPVerifier{
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, idToken, audience string) (*Profile, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}
	form := url.Values{}
	form.Set("id_token", idToken)
	form.Set("client_id", audience)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("auth: verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: verify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, ErrInvalidToken
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("auth: decode verify response: %w", err)
	}
	if p.Sub == "" {
		return nil, ErrInvalidToken
	}
	return &p, nil
}
