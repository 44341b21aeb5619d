// Package notionapi is a minimal client for the two Notion endpoints the
// export flow needs: search (to locate the page shared with the integration)
// and page creation.
package notionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const notionVersion = "2022-06-28"

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.notion.com"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FindParentPage returns the first page the workspace shared with the
// integration, which is where exported entries get created.
func (c *Client) FindParentPage(ctx context.Context, accessToken string) (string, error) {
	body := map[string]any{
		"filter":    map[string]string{"value": "page", "property": "object"},
		"page_size": 1,
	}

	var result struct {
		Results []page `json:"results"`
	}
	if err := c.do(ctx, accessToken, http.MethodPost, "/v1/search", body, &result); err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("no notion page shared with the integration")
	}
	return result.Results[0].ID, nil
}

// CreatePage creates a child page with the given title and content blocks
// and returns its id and public URL.
func (c *Client) CreatePage(ctx context.Context, accessToken, parentPageID, title string, blocks []map[string]any) (string, string, error) {
	body := map[string]any{
		"parent": map[string]string{"page_id": parentPageID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]string{"content": title}},
				},
			},
		},
		"children": blocks,
	}

	var created page
	if err := c.do(ctx, accessToken, http.MethodPost, "/v1/pages", body, &created); err != nil {
		return "", "", err
	}
	return created.ID, created.URL, nil
}

func (c *Client) do(ctx context.Context, accessToken, method, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Message != "" {
			return fmt.Errorf("notion api %s: %s (%d)", failure.Code, failure.Message, resp.StatusCode)
		}
		return fmt.Errorf("notion api status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
