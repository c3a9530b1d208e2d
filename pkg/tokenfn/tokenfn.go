// Package tokenfn implements the client-credentials token exchange with the
// Spotify accounts service. Each Exchange call performs exactly one POST to
// the token endpoint using HTTP Basic authentication and relays the
// access_token field of the response. The package mirrors the behaviour of
// the original function runtime handler: credentials are used without
// validation, the upstream status code is never inspected, and any transport
// or decoding failure is returned to the caller untranslated.
//
// Network calls are performed using the provided http.Client allowing
// callers to substitute a test client.
package tokenfn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// TokenURL is the Spotify accounts service token endpoint.
const TokenURL = "https://accounts.spotify.com/api/token"

// Exchanger performs the client-credentials grant. Credentials are threaded
// in explicitly at construction time rather than read from the process
// environment so the exchange can be exercised in tests without mutating
// global state. The zero value with populated credentials is ready for use.
type Exchanger struct {
	ClientID     string
	ClientSecret string
	// TokenURL overrides the upstream endpoint. Empty means TokenURL.
	TokenURL string
	// HTTP is the client used for the outbound call. Nil means
	// http.DefaultClient; no additional timeout is layered on top of it.
	HTTP *http.Client
}

// Result describes the response relayed to the invoking platform. Body is the
// JSON serialisation of a single-key object {"access_token": ...}.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// tokenBody carries the one field extracted from the upstream response. The
// pointer keeps absent upstream values distinguishable: a response without an
// access_token serialises as {"access_token":null}.
type tokenBody struct {
	AccessToken *string `json:"access_token"`
}

// Exchange issues the token request and builds the relayed result. The
// credentials are read at call time and used as-is, even when empty. Failures
// of any kind (request construction, transport, JSON decoding) are returned
// raw so the caller decides the externally visible outcome; the curated
// Result shape only exists on the success path.
func (e *Exchanger) Exchange(ctx context.Context) (Result, error) {
	client := e.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	u := e.TokenURL
	if u == "" {
		u = TokenURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return Result{}, err
	}
	creds := base64.StdEncoding.EncodeToString([]byte(e.ClientID + ":" + e.ClientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	// The upstream status code is deliberately ignored. The original
	// handler relayed whatever body came back under a fixed 200, so a
	// non-2xx upstream response with a JSON body still produces a result.
	var tok tokenBody
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(tokenBody{AccessToken: tok.AccessToken})
	if err != nil {
		return Result{}, err
	}
	return Result{StatusCode: http.StatusOK, Body: string(body)}, nil
}
