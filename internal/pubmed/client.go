// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI PubMed E-utilities for journal articles.
// A query is two calls: esearch for the PMIDs matching a journal and date
// window, then efetch for the article metadata behind those PMIDs.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-pipeline/internal/httputil"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// esearchBase and efetchBase are the E-utilities endpoints. Declared as
// vars so tests can substitute an httptest server.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const defaultRetMax = 1000

// termDateFmt is the date layout PubMed expects inside a search term.
const termDateFmt = "2006/01/02"

// Client talks to the E-utilities. The tool/email identity in cfg is sent
// with every request and is fixed for the lifetime of the client.
type Client struct {
	HTTP *http.Client
	cfg  types.PubMedConfig
}

// New builds a client from the given configuration.
func New(cfg types.PubMedConfig) *Client {
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// Search returns the articles published in journal within r. A journal
// with no matching articles yields a nil slice and nil error. Articles
// missing a PMID or a title are dropped.
func (c *Client) Search(ctx context.Context, journal string, r types.DateRange) ([]types.Paper, error) {
	ids, err := c.searchIDs(ctx, journal, r)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.fetch(ctx, journal, ids)
}

// searchIDs runs esearch and returns the matching PMIDs.
func (c *Client) searchIDs(ctx context.Context, journal string, r types.DateRange) ([]string, error) {
	retMax := c.cfg.RetMax
	if retMax <= 0 {
		retMax = defaultRetMax
	}

	term := fmt.Sprintf(`"%s"[Journal] AND ("%s"[Date - Publication] : "%s"[Date - Publication])`,
		journal, r.Start.Format(termDateFmt), r.End.Format(termDateFmt))

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmode": {"json"},
		"retmax":  {strconv.Itoa(retMax)},
	}
	c.identify(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, esearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating esearch request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("esearch request for %s: %w", journal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch for %s returned HTTP %d", journal, resp.StatusCode)
	}

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing esearch response for %s: %w", journal, err)
	}
	return sr.Result.IDList, nil
}

// fetch runs efetch for the given PMIDs and extracts paper records.
// POST is used because the ID list can exceed URL length limits.
func (c *Client) fetch(ctx context.Context, journal string, ids []string) ([]types.Paper, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	c.identify(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, efetchBase,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating efetch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("efetch request for %s: %w", journal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch for %s returned HTTP %d", journal, resp.StatusCode)
	}

	return extractPapers(resp.Body, journal)
}

// identify adds the tool/email/API-key identity to params.
func (c *Client) identify(params url.Values) {
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	IDList []string `json:"idlist"`
}
