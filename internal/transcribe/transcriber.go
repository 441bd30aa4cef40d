package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"lifeops/internal/config"
	"lifeops/internal/ledger"
	"lifeops/internal/models"
	"lifeops/pkg/logger"
	pkghttp "lifeops/pkg/http"
)

const (
	serviceName    = "modulate"
	defaultBaseURL = "https://api.modulate.ai/v1/transcribe"
	requestTimeout = 10 * time.Second

	// FallbackTranscript is returned when the provider fails. The caller
	// decides whether proceeding with it is acceptable.
	FallbackTranscript = "I moved here three months ago and just started working a new job in California. I don't know what forms I need."
)

// Result is the outcome of one transcription attempt. When Succeeded is
// false, Text holds FallbackTranscript and ErrDetail explains the
// degradation.
type Result struct {
	Text      string
	Succeeded bool
	ErrDetail string
}

// Transcriber sends audio to the external speech-to-text provider and
// normalizes its response. Provider failures degrade to a fixed
// fallback transcript; only a missing credential is surfaced as an
// error, because without it the endpoint has no function.
type Transcriber struct {
	client   *pkghttp.Client
	recorder ledger.Recorder
	log      *logger.Logger
	apiKey   string
	baseURL  string
	timeout  time.Duration
}

// NewTranscriber creates a Transcriber from the transcription provider
// config.
func NewTranscriber(cfg config.TranscriptionConfig, client *pkghttp.Client, recorder ledger.Recorder, log *logger.Logger) *Transcriber {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Transcriber{
		client:   client,
		recorder: recorder,
		log:      log,
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		timeout:  requestTimeout,
	}
}

// Transcribe uploads the audio and returns the normalized transcript.
// mimeHint, when empty, is replaced by sniffing the audio bytes.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeHint string) (Result, error) {
	if t.apiKey == "" {
		return Result{}, fmt.Errorf("transcription: %w", models.ErrMissingCredential)
	}

	// Record before the upload so a hung provider is still observable.
	t.recorder.Record(serviceName, t.baseURL, "dispatched")

	text, err := t.upload(ctx, audio, mimeHint)
	if err != nil {
		if t.log != nil {
			t.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("transcription degraded to fallback transcript")
		}
		return Result{Text: FallbackTranscript, Succeeded: false, ErrDetail: err.Error()}, nil
	}
	return Result{Text: text, Succeeded: true}, nil
}

func (t *Transcriber) upload(ctx context.Context, audio []byte, mimeHint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	contentType := mimeHint
	if contentType == "" {
		contentType = mimetype.Detect(audio).String()
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio payload: %w", err)
	}

	// Feature flags are accepted by the provider but their outputs are
	// not interpreted here.
	writer.WriteField("diarize", "true")
	writer.WriteField("emotion", "true")

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %w", err)
	}

	text, ok := decodeTranscript(body)
	if !ok {
		return "", fmt.Errorf("transcription response carried no usable transcript")
	}
	return text, nil
}
