package browsing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifeops/internal/config"
	"lifeops/internal/ledger"
	pkghttp "lifeops/pkg/http"
)

func newTestClient(t *testing.T) *pkghttp.Client {
	t.Helper()
	client, err := pkghttp.NewClient(config.CircuitBreakerConfig{}, 2*time.Second)
	if err != nil {
		t.Fatalf("failed to create http client: %v", err)
	}
	return client
}

func TestCredentialShortCircuit(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	rec := ledger.New(nil)
	resolver := NewResolver(config.BrowsingConfig{APIKey: "", BaseURL: server.URL}, newTestClient(t), rec, nil)

	res := resolver.ResolveLinks(context.Background(), "Check SSN Status", "recently relocated")

	if called {
		t.Error("expected zero network calls without a credential")
	}
	if res.Fallback {
		t.Error("short-circuit is a configuration choice, not a fallback")
	}
	if len(res.Links) != 1 {
		t.Fatalf("expected exactly one synthetic link, got %d", len(res.Links))
	}
	if got, want := res.Links[0].URL, "https://www.google.com/search?q=Check+SSN+Status"; got != want {
		t.Errorf("synthetic URL = %q, want %q", got, want)
	}
	if rec.Len() != 0 {
		t.Errorf("short-circuit must not record an invocation, ledger has %d entries", rec.Len())
	}
}

func TestResolveLinksParsesArrayResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": [{"title": "SSA", "url": "https://www.ssa.gov"}, {"title": "IRS", "url": "https://www.irs.gov"}]}`))
	}))
	defer server.Close()

	rec := ledger.New(nil)
	resolver := NewResolver(config.BrowsingConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), rec, nil)

	res := resolver.ResolveLinks(context.Background(), "Check SSN Status", "new job in California")

	if res.Fallback {
		t.Fatalf("expected parsed links, got fallback (err: %s)", res.Err)
	}
	if len(res.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(res.Links))
	}
	if res.Links[0].URL != "https://www.ssa.gov" {
		t.Errorf("unexpected first link: %+v", res.Links[0])
	}
	if rec.Len() != 1 {
		t.Errorf("expected 1 ledger entry, got %d", rec.Len())
	}
}

func TestResolveLinksParsesEmbeddedArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "Here are the links you asked for: [{\"title\": \"DMV\", \"url\": \"https://www.dmv.ca.gov\"}] hope that helps"}`))
	}))
	defer server.Close()

	resolver := NewResolver(config.BrowsingConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), ledger.New(nil), nil)

	res := resolver.ResolveLinks(context.Background(), "State ID Appointment", "California resident")

	if res.Fallback {
		t.Fatalf("expected embedded array to parse, got fallback (err: %s)", res.Err)
	}
	if len(res.Links) != 1 || res.Links[0].URL != "https://www.dmv.ca.gov" {
		t.Errorf("unexpected links: %+v", res.Links)
	}
}

func TestResolveLinksMalformedResultFallsBack(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"result absent", `{"status": "ok"}`},
		{"result not an array", `{"result": 42}`},
		{"string without array", `{"result": "no links here"}`},
		{"array of wrong objects", `{"result": [{"name": "x"}]}`},
		{"not json at all", `<html>boom</html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			resolver := NewResolver(config.BrowsingConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), ledger.New(nil), nil)
			res := resolver.ResolveLinks(context.Background(), "Draft W-4 Form", "")

			if !res.Fallback {
				t.Fatal("expected fallback for malformed result")
			}
			if len(res.Links) != 1 || res.Links[0].Title != "Official Link" {
				t.Errorf("expected single fallback link, got %+v", res.Links)
			}
		})
	}
}

func TestResolveLinksNetworkFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	rec := ledger.New(nil)
	resolver := NewResolver(config.BrowsingConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), rec, nil)

	res := resolver.ResolveLinks(context.Background(), "Check SSN Status", "")

	if !res.Fallback {
		t.Fatal("expected fallback on network failure")
	}
	if len(res.Links) != 1 {
		t.Fatalf("expected exactly one fallback link, got %d", len(res.Links))
	}
	if res.Err == "" {
		t.Error("expected error detail to be populated")
	}
	if rec.Len() != 1 {
		t.Errorf("attempt must be recorded even when the call fails, ledger has %d entries", rec.Len())
	}
}

func TestResolveLinksTimeoutFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"result": []}`))
	}))
	defer server.Close()

	resolver := NewResolver(config.BrowsingConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), ledger.New(nil), nil)
	resolver.timeout = 50 * time.Millisecond

	start := time.Now()
	res := resolver.ResolveLinks(context.Background(), "Check SSN Status", "")
	elapsed := time.Since(start)

	if !res.Fallback || len(res.Links) != 1 {
		t.Fatalf("expected single fallback link on timeout, got %+v", res)
	}
	if elapsed > time.Second {
		t.Errorf("resolution took %v, expected it bounded by the resolver timeout", elapsed)
	}
}

func TestBalancedArray(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`[{"a":1}]`, `[{"a":1}]`, true},
		{`prose [1, [2, 3]] more`, `[1, [2, 3]]`, true},
		{`["a]b", "c"]`, `["a]b", "c"]`, true}, // bracket inside a string literal is ignored
		{`no array here`, ``, false},
		{`[unclosed`, ``, false},
	}

	for _, tc := range cases {
		got, ok := balancedArray(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("balancedArray(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
