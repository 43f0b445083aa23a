// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/paper-sync/internal/httputil"
	"github.com/pdiddy/paper-sync/pkg/types"
)

// notionAPIBase is the Notion REST endpoint. Declared as a var so tests
// can substitute an httptest server.
var notionAPIBase = "https://api.notion.com/v1"

// notionVersion pins the Notion API revision the payload shapes target.
const notionVersion = "2022-06-28"

// ErrUnauthorized marks a rejected Notion token. Callers match it with
// errors.Is.
var ErrUnauthorized = errors.New("notion token rejected")

// NotionSink creates one page per record in a Notion database.
type NotionSink struct {
	client     *http.Client
	token      string
	databaseID string
	userAgent  string
}

// NewNotion builds a Notion sink from cfg. It performs no network I/O;
// a bad token or database ID surfaces on the first Write.
func NewNotion(client *http.Client, cfg types.NotionConfig) *NotionSink {
	return &NotionSink{
		client:     client,
		token:      cfg.Token,
		databaseID: cfg.DatabaseID,
		userAgent:  cfg.UserAgent,
	}
}

// Name returns the sink identifier.
func (s *NotionSink) Name() string { return "notion" }

// Close is a no-op; the sink holds no resources beyond the shared client.
func (s *NotionSink) Close() error { return nil }

// Write creates one database page for the record. HTTP 401 maps to
// ErrUnauthorized; any other non-success status to *httputil.StatusError.
func (s *NotionSink) Write(ctx context.Context, r *types.PaperRecord) error {
	payload, err := json.Marshal(pageRequest{
		Parent:     pageParent{DatabaseID: s.databaseID},
		Properties: propertiesFor(r),
	})
	if err != nil {
		return fmt.Errorf("encoding Notion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notionAPIBase+"/pages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Notion API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w (HTTP 401)", ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("creating Notion page for %s: %w", r.ArxivID,
			&httputil.StatusError{Status: resp.StatusCode, Body: httputil.ErrorBody(resp.Body)})
	}
	return nil
}

// Notion page payload structures, per API version 2022-06-28. Property
// names match the database columns the original integration targets.

type pageRequest struct {
	Parent     pageParent     `json:"parent"`
	Properties pageProperties `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type pageProperties struct {
	Title         titleProp        `json:"Title"`
	PaperURL      urlProp          `json:"Paper URL"`
	GitHubURL     *urlProp         `json:"GitHub URL,omitempty"`
	PublishedDate dateProp         `json:"Published Date"`
	Keywords      *multiSelectProp `json:"Keywords,omitempty"`
	Authors       richTextProp     `json:"Authors"`
}

type titleProp struct {
	Title []richText `json:"title"`
}

type richTextProp struct {
	RichText []richText `json:"rich_text"`
}

type richText struct {
	Type string   `json:"type"`
	Text textSpan `json:"text"`
}

type textSpan struct {
	Content string `json:"content"`
}

type urlProp struct {
	URL string `json:"url"`
}

type dateProp struct {
	Date dateStart `json:"date"`
}

type dateStart struct {
	Start string `json:"start"`
}

type multiSelectProp struct {
	MultiSelect []selectOption `json:"multi_select"`
}

type selectOption struct {
	Name string `json:"name"`
}

func propertiesFor(r *types.PaperRecord) pageProperties {
	props := pageProperties{
		Title:         titleProp{Title: []richText{textOf(r.Title)}},
		PaperURL:      urlProp{URL: r.URL},
		PublishedDate: dateProp{Date: dateStart{Start: r.Published.Format("2006-01-02")}},
		Authors:       richTextProp{RichText: []richText{textOf(joinList(r.Authors))}},
	}
	if r.GitHubURL != "" {
		props.GitHubURL = &urlProp{URL: r.GitHubURL}
	}
	if len(r.Keywords) > 0 {
		opts := make([]selectOption, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			opts = append(opts, selectOption{Name: kw})
		}
		props.Keywords = &multiSelectProp{MultiSelect: opts}
	}
	return props
}

func textOf(s string) richText {
	return richText{Type: "text", Text: textSpan{Content: s}}
}
