package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifeops/internal/config"
	"lifeops/internal/ledger"
	"lifeops/internal/models"
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

func TestMissingCredentialIsHardError(t *testing.T) {
	tr := NewTranscriber(config.TranscriptionConfig{}, newTestClient(t), ledger.New(nil), nil)

	_, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")
	if !errors.Is(err, models.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestTranscribeShapePriority(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"top-level text", `{"text": "hello world"}`, "hello world"},
		{"utterance fragments", `{"utterances": [{"text": "hello"}, {"text": "world"}]}`, "hello world"},
		{"generic results", `{"results": "hello from results"}`, "hello from results"},
		{
			"text wins over utterances",
			`{"text": "primary", "utterances": [{"text": "secondary"}]}`,
			"primary",
		},
		{
			"empty text falls through to utterances",
			`{"text": "", "utterances": [{"text": "assembled"}]}`,
			"assembled",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			tr := NewTranscriber(config.TranscriptionConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), ledger.New(nil), nil)
			res, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")
			if err != nil {
				t.Fatalf("Transcribe returned error: %v", err)
			}
			if !res.Succeeded {
				t.Fatalf("expected success, got degradation: %s", res.ErrDetail)
			}
			if res.Text != tc.want {
				t.Errorf("transcript = %q, want %q", res.Text, tc.want)
			}
		})
	}
}

func TestTranscribeSendsMultipartWithFlags(t *testing.T) {
	var gotDiarize, gotEmotion string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("request is not multipart: %v", err)
		}
		gotDiarize = r.FormValue("diarize")
		gotEmotion = r.FormValue("emotion")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"text": "ok"}`))
	}))
	defer server.Close()

	tr := NewTranscriber(config.TranscriptionConfig{APIKey: "secret", BaseURL: server.URL}, newTestClient(t), ledger.New(nil), nil)
	if _, err := tr.Transcribe(context.Background(), []byte("audio-bytes"), "audio/wav"); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	if gotDiarize != "true" || gotEmotion != "true" {
		t.Errorf("feature flags not sent: diarize=%q emotion=%q", gotDiarize, gotEmotion)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
}

func TestTranscribeTimeoutFallsBackAndRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"text": "too late"}`))
	}))
	defer server.Close()

	rec := ledger.New(nil)
	tr := NewTranscriber(config.TranscriptionConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), rec, nil)
	tr.timeout = 50 * time.Millisecond

	res, err := tr.Transcribe(context.Background(), []byte("audio"), "audio/wav")
	if err != nil {
		t.Fatalf("provider failure must not surface as an error, got %v", err)
	}
	if res.Succeeded {
		t.Fatal("expected Succeeded=false on timeout")
	}
	if res.Text != FallbackTranscript {
		t.Errorf("expected the fixed fallback transcript, got %q", res.Text)
	}
	if res.ErrDetail == "" {
		t.Error("expected error detail to be populated")
	}
	if rec.Len() != 1 {
		t.Errorf("attempt must be recorded regardless of outcome, ledger has %d entries", rec.Len())
	}
}

func TestTranscribeMalformedResponseFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unrelated": true}`))
	}))
	defer server.Close()

	tr := NewTranscriber(config.TranscriptionConfig{APIKey: "key", BaseURL: server.URL}, newTestClient(t), ledger.New(nil), nil)

	res, err := tr.Transcribe(context.Background(), []byte("audio"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Succeeded || res.Text != FallbackTranscript {
		t.Errorf("expected fallback transcript, got %+v", res)
	}
}

func TestDecodeTranscriptRejectsEmptyShapes(t *testing.T) {
	if _, ok := decodeTranscript([]byte(`{"text": "  ", "utterances": [], "results": ""}`)); ok {
		t.Error("expected no transcript from all-empty shapes")
	}
	if _, ok := decodeTranscript([]byte(`not json`)); ok {
		t.Error("expected no transcript from invalid JSON")
	}
}
