package tokenfn

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newStubUpstream records the request the exchanger sends and replies with
// the provided body. The recorded values are returned for assertions.
func newStubUpstream(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *[]byte) {
	t.Helper()
	var captured http.Request
	var payload []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		payload, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured, &payload
}

// TestExchangeSuccess verifies the happy path: the outbound request carries
// the documented headers and body, and the result relays the upstream token
// under a fixed 200 status.
func TestExchangeSuccess(t *testing.T) {
	srv, req, payload := newStubUpstream(t, http.StatusOK, `{"access_token":"T","token_type":"Bearer","expires_in":3600}`)
	e := &Exchanger{ClientID: "abc", ClientSecret: "xyz", TokenURL: srv.URL}

	res, err := e.Exchange(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected 200 got %d", res.StatusCode)
	}
	if res.Body != `{"access_token":"T"}` {
		t.Errorf("unexpected body %s", res.Body)
	}
	if req.Method != http.MethodPost {
		t.Errorf("expected POST got %s", req.Method)
	}
	// base64("abc:xyz") is the concrete vector from the original contract.
	if got := req.Header.Get("Authorization"); got != "Basic YWJjOnh5eg==" {
		t.Errorf("unexpected Authorization header %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected Content-Type %q", got)
	}
	if string(*payload) != "grant_type=client_credentials" {
		t.Errorf("unexpected request body %q", *payload)
	}
}

// TestExchangeMissingToken checks the documented serialisation choice: an
// upstream body without an access_token field yields an explicit null.
func TestExchangeMissingToken(t *testing.T) {
	srv, _, _ := newStubUpstream(t, http.StatusOK, `{"error":"invalid_client"}`)
	e := &Exchanger{ClientID: "abc", ClientSecret: "xyz", TokenURL: srv.URL}

	res, err := e.Exchange(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Body != `{"access_token":null}` {
		t.Errorf("unexpected body %s", res.Body)
	}
}

// TestExchangeIgnoresUpstreamStatus confirms that a non-2xx upstream response
// with a decodable body still produces the fixed 200 result rather than an
// error. This preserves the original handler's unconditional status.
func TestExchangeIgnoresUpstreamStatus(t *testing.T) {
	srv, _, _ := newStubUpstream(t, http.StatusTooManyRequests, `{"access_token":"still-relayed"}`)
	e := &Exchanger{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL}

	res, err := e.Exchange(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected fixed 200 got %d", res.StatusCode)
	}
	if res.Body != `{"access_token":"still-relayed"}` {
		t.Errorf("unexpected body %s", res.Body)
	}
}

// TestExchangeTransportError ensures network failures propagate as errors
// rather than being converted into a curated result.
func TestExchangeTransportError(t *testing.T) {
	srv, _, _ := newStubUpstream(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	e := &Exchanger{ClientID: "abc", ClientSecret: "xyz", TokenURL: url}
	if _, err := e.Exchange(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

// TestExchangeMalformedBody ensures an undecodable upstream body propagates
// as an error.
func TestExchangeMalformedBody(t *testing.T) {
	srv, _, _ := newStubUpstream(t, http.StatusOK, `<html>not json</html>`)
	e := &Exchanger{ClientID: "abc", ClientSecret: "xyz", TokenURL: srv.URL}

	if _, err := e.Exchange(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

// TestExchangeEmptyCredentials verifies that empty credentials are used
// without validation, producing the Basic encoding of ":".
func TestExchangeEmptyCredentials(t *testing.T) {
	srv, req, _ := newStubUpstream(t, http.StatusOK, `{"access_token":"T"}`)
	e := &Exchanger{TokenURL: srv.URL}

	if _, err := e.Exchange(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// base64(":") — the exchange never checks for missing configuration.
	if got := req.Header.Get("Authorization"); got != "Basic Og==" {
		t.Errorf("unexpected Authorization header %q", got)
	}
}

// TestExchangeReadsCredentialsAtCallTime checks that each call reflects the
// current configuration rather than a value captured earlier.
func TestExchangeReadsCredentialsAtCallTime(t *testing.T) {
	srv, req, _ := newStubUpstream(t, http.StatusOK, `{"access_token":"T"}`)
	e := &Exchanger{ClientID: "abc", ClientSecret: "xyz", TokenURL: srv.URL}

	if _, err := e.Exchange(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.ClientID, e.ClientSecret = "other", "pair"
	if _, err := e.Exchange(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Basic b3RoZXI6cGFpcg==" {
		t.Errorf("unexpected Authorization header %q", got)
	}
}
