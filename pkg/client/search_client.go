// Package client is the auditor side of signed search. The private key stays
// in the caller's process; only the keyword hash and its signature are sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/securematch/securematch/pkg/keyword"
	"github.com/securematch/securematch/pkg/signer"
)

// ErrNotAuthorized is returned for every rejected search. The server does not
// say why.
var ErrNotAuthorized = errors.New("search not authorized")

const searchPath = "/api/search/external/"

type SearchResult struct {
	DocumentID int64     `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SignedQuery is the request body of an external search.
type SignedQuery struct {
	AuditorID   int64  `json:"auditor_id"`
	KeywordHash string `json:"keyword_hash"`
	Signature   string `json:"signature"`
}

// SearchClient posts signed queries to a securematch server. It never holds
// the auditor's private key; callers pass it to each signing call.
type SearchClient struct {
	baseURL    string
	auditorID  int64
	httpClient *http.Client
}

// NewSearchClient creates a client for one auditor. timeout defaults to 30
// seconds.
func NewSearchClient(baseURL string, auditorID int64, timeout ...time.Duration) *SearchClient {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &SearchClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		auditorID:  auditorID,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// Prepare normalizes, hashes and signs keyword without any network access.
func (c *SearchClient) Prepare(term string, privateKeyPEM string) (*SignedQuery, error) {
	hash := keyword.NormalizeAndHash(term)
	sig, err := signer.Sign(hash, privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &SignedQuery{
		AuditorID:   c.auditorID,
		KeywordHash: hash,
		Signature:   sig,
	}, nil
}

// Search runs the full client pipeline for term.
func (c *SearchClient) Search(ctx context.Context, term string, privateKeyPEM string) ([]SearchResult, error) {
	query, err := c.Prepare(term, privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, query)
}

// Submit posts an already signed query.
func (c *SearchClient) Submit(ctx context.Context, query *SignedQuery) ([]SearchResult, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, ErrNotAuthorized
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search request failed with code %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var envelope struct {
		Data struct {
			Results []SearchResult `json:"results"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if envelope.Data.Results == nil {
		return []SearchResult{}, nil
	}
	return envelope.Data.Results, nil
}
