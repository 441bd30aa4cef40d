package browsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lifeops/internal/config"
	"lifeops/internal/ledger"
	"lifeops/internal/models"
	"lifeops/pkg/logger"
	pkghttp "lifeops/pkg/http"
)

const (
	serviceName    = "yutori"
	defaultBaseURL = "https://api.yutori.com/v1/browse"
	requestTimeout = 10 * time.Second

	fallbackLinkTitle = "Official Link"
	fallbackLinkURL   = "https://www.usa.gov"
)

// Resolution is the outcome of one link-resolution attempt. Links is
// never empty. Fallback reports that the provider could not be used and
// the generic fallback link was substituted; the credential-less
// synthetic link is a configuration choice, not a fallback.
type Resolution struct {
	Links    []models.Link
	Fallback bool
	Err      string
}

// Resolver asks the external browsing provider for authoritative
// reference links for a task. Every failure mode degrades to a
// synthetic link: ResolveLinks never propagates an error, so pipeline
// availability does not depend on the provider being reachable or
// well-formed.
type Resolver struct {
	client   *pkghttp.Client
	recorder ledger.Recorder
	log      *logger.Logger
	apiKey   string
	baseURL  string
	timeout  time.Duration
}

// NewResolver creates a Resolver from the browsing provider config.
func NewResolver(cfg config.BrowsingConfig, client *pkghttp.Client, recorder ledger.Recorder, log *logger.Logger) *Resolver {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Resolver{
		client:   client,
		recorder: recorder,
		log:      log,
		apiKey:   cfg.APIKey,
		baseURL:  baseURL,
		timeout:  requestTimeout,
	}
}

type browseRequest struct {
	Instruction string `json:"instruction"`
}

// ResolveLinks returns reference links for the given task title,
// informed by a summary of the user's context. The result always
// contains at least one link and arrives within the resolver's timeout
// even if the provider hangs.
func (r *Resolver) ResolveLinks(ctx context.Context, taskTitle, contextSummary string) Resolution {
	// Without a credential the provider is skipped entirely and a
	// deterministic search link is built from the task title.
	if r.apiKey == "" {
		return Resolution{Links: []models.Link{syntheticLink(taskTitle)}}
	}

	// The attempt is recorded before the call goes out, so a hung
	// provider is still observable in the ledger.
	r.recorder.Record(serviceName, r.baseURL, "dispatched")

	links, err := r.fetchLinks(ctx, taskTitle, contextSummary)
	if err != nil {
		if r.log != nil {
			r.log.WithError(models.ErrorInfo{Message: err.Error()}).
				WithPayload(map[string]interface{}{"task_title": taskTitle}).
				Warn("link resolution degraded to fallback")
		}
		return Resolution{
			Links:    []models.Link{{Title: fallbackLinkTitle, URL: fallbackLinkURL}},
			Fallback: true,
			Err:      err.Error(),
		}
	}
	return Resolution{Links: links}
}

func (r *Resolver) fetchLinks(ctx context.Context, taskTitle, contextSummary string) ([]models.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	instruction := fmt.Sprintf(
		"Find authoritative reference links for the task %q given this user context: %s. "+
			"Respond with a JSON array of objects with \"title\" and \"url\" fields.",
		taskTitle, contextSummary,
	)
	payload, err := json.Marshal(browseRequest{Instruction: instruction})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal browse request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create browse request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("browse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("browse provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read browse response: %w", err)
	}

	links, ok := decodeLinks(body)
	if !ok {
		return nil, fmt.Errorf("browse response carried no parseable link array")
	}
	return links, nil
}

// syntheticLink builds the deterministic search-engine link used when
// no browsing credential is configured.
func syntheticLink(taskTitle string) models.Link {
	return models.Link{
		Title: "Search: " + taskTitle,
		URL:   "https://www.google.com/search?q=" + url.QueryEscape(taskTitle),
	}
}
