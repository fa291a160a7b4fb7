package metastore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/emelz/wardrobe/internal/apperr"
	"github.com/emelz/wardrobe/internal/models"
	"github.com/emelz/wardrobe/internal/sheet"
)

// TableService is the opaque tabular backend: locate a uniquely named
// spreadsheet inside a container, then read its first sheet's used
// range as rows of strings. FindSpreadsheet returns apperr.ErrNotFound
// when no spreadsheet with that name exists in the folder.
type TableService interface {
	FindSpreadsheet(ctx context.Context, folderID, name string) (string, error)
	FirstSheetTitle(ctx context.Context, spreadsheetID string) (string, error)
	Values(ctx context.Context, spreadsheetID, sheetTitle string) ([][]string, error)
}

// SheetSource resolves metadata from a spreadsheet through a
// TableService. Rows 0 and 1 of the used range are the two header rows.
type SheetSource struct {
	svc       TableService
	folderID  string
	sheetName string
}

// NewSheetSource creates a tabular metadata source.
func NewSheetSource(svc TableService, folderID, sheetName string) *SheetSource {
	return &SheetSource{svc: svc, folderID: folderID, sheetName: sheetName}
}

// Name identifies the source in logs.
func (s *SheetSource) Name() string {
	return "sheet:" + s.sheetName
}

// Lookup locates the spreadsheet, reads its used range, and decodes the
// rows into an id→item mapping.
func (s *SheetSource) Lookup(ctx context.Context) (map[string]models.Item, error) {
	id, err := s.svc.FindSpreadsheet(ctx, s.folderID, s.sheetName)
	if err != nil {
		return nil, err
	}
	title, err := s.svc.FirstSheetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	values, err := s.svc.Values(ctx, id, title)
	if err != nil {
		return nil, err
	}
	items := sheet.ToItems(values)
	out := make(map[string]models.Item, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

const (
	driveBaseURL  = "https://www.googleapis.com/drive/v3"
	sheetsBaseURL = "https://sheets.googleapis.com/v4"

	// usedRange is deliberately generous so every column and row that
	// might hold data is captured.
	usedRange = "A1:ZZ100000"

	requestTimeout = 30 * time.Second
)

// GoogleClient implements TableService against the Google Drive and
// Sheets REST APIs using a bearer token. Token acquisition and refresh
// happen elsewhere; the client only reads the already-issued token.
type GoogleClient struct {
	httpClient *http.Client
	token      string

	// overridable in tests
	driveURL  string
	sheetsURL string
}

// NewGoogleClient creates a client with the given bearer token.
func NewGoogleClient(token string) *GoogleClient {
	return &GoogleClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		token:      token,
		driveURL:   driveBaseURL,
		sheetsURL:  sheetsBaseURL,
	}
}

// NewGoogleClientFromTokenFile reads an OAuth token file as written by
// the authorization tooling and builds a client from its access token.
func NewGoogleClientFromTokenFile(path string) (*GoogleClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metastore: read token file: %w", err)
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("metastore: decode token file: %w", err)
	}
	if tok.Token == "" {
		return nil, fmt.Errorf("metastore: token file %s has no token", path)
	}
	return NewGoogleClient(tok.Token), nil
}

// FindSpreadsheet queries Drive for a spreadsheet named name inside
// folderID. With several matches the first is taken.
func (c *GoogleClient) FindSpreadsheet(ctx context.Context, folderID, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and '%s' in parents and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		name, folderID)

	params := url.Values{}
	params.Set("q", query)
	params.Set("spaces", "drive")
	params.Set("fields", "files(id, name)")
	params.Set("pageSize", "10")

	var resp struct {
		Files []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"files"`
	}
	if err := c.getJSON(ctx, c.driveURL+"/files?"+params.Encode(), &resp); err != nil {
		return "", err
	}
	if len(resp.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q in folder %s: %w", name, folderID, apperr.ErrNotFound)
	}
	return resp.Files[0].ID, nil
}

// FirstSheetTitle returns the title of the spreadsheet's first sheet.
func (c *GoogleClient) FirstSheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	u := fmt.Sprintf("%s/spreadsheets/%s?fields=%s",
		c.sheetsURL, spreadsheetID, url.QueryEscape("sheets(properties(title))"))

	var resp struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return "", err
	}
	if len(resp.Sheets) == 0 {
		return "", fmt.Errorf("metastore: spreadsheet %s has no sheets", spreadsheetID)
	}
	return resp.Sheets[0].Properties.Title, nil
}

// Values reads the sheet's used range as rows of strings.
func (c *GoogleClient) Values(ctx context.Context, spreadsheetID, sheetTitle string) ([][]string, error) {
	rng := fmt.Sprintf("'%s'!%s", sheetTitle, usedRange)
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s?majorDimension=ROWS",
		c.sheetsURL, spreadsheetID, url.PathEscape(rng))

	var resp struct {
		Values [][]string `json:"values"`
	}
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *GoogleClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("metastore: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metastore: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("metastore: backend status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("metastore: decode response: %w", err)
	}
	return nil
}
