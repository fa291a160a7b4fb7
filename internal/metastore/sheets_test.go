package metastore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/emelz/wardrobe/internal/apperr"
)

type fakeTable struct {
	findErr error
	values  [][]string
}

func (f *fakeTable) FindSpreadsheet(context.Context, string, string) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	return "sheet-id", nil
}

func (f *fakeTable) FirstSheetTitle(context.Context, string) (string, error) {
	return "Sheet1", nil
}

func (f *fakeTable) Values(context.Context, string, string) ([][]string, error) {
	return f.values, nil
}

func TestSheetSource_LookupMapsByID(t *testing.T) {
	svc := &fakeTable{values: [][]string{
		{"ID", "Title", "Category", "Tags"},
		{"", "", "", "color"},
		{"a1", "Red Shirt", "shirts", "red"},
		{"b2", "Jeans", "pants", ""},
	}}
	src := NewSheetSource(svc, "folder", "eric-wardrobe")

	got, err := src.Lookup(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got["a1"].Title != "Red Shirt" {
		t.Errorf("a1 = %+v", got["a1"])
	}
}

func TestSheetSource_NotFoundPassesThrough(t *testing.T) {
	svc := &fakeTable{findErr: apperr.ErrNotFound}
	src := NewSheetSource(svc, "folder", "missing-wardrobe")

	_, err := src.Lookup(context.Background())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGoogleClient_FindSpreadsheet(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/files" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"files": [{"id": "abc123", "name": "eric-wardrobe"}]}`))
	}))
	defer srv.Close()

	c := NewGoogleClient("tok")
	c.driveURL = srv.URL

	id, err := c.FindSpreadsheet(context.Background(), "folder", "eric-wardrobe")
	if err != nil {
		t.Fatalf("FindSpreadsheet: %v", err)
	}
	if id != "abc123" {
		t.Errorf("id = %q", id)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestGoogleClient_FindSpreadsheet_NoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"files": []}`))
	}))
	defer srv.Close()

	c := NewGoogleClient("tok")
	c.driveURL = srv.URL

	_, err := c.FindSpreadsheet(context.Background(), "folder", "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGoogleClient_Values(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"values": [["ID", "Title"], ["", ""], ["a1", "Red Shirt"]]}`))
	}))
	defer srv.Close()

	c := NewGoogleClient("tok")
	c.sheetsURL = srv.URL

	values, err := c.Values(context.Background(), "abc123", "Sheet1")
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if len(values) != 3 || values[2][1] != "Red Shirt" {
		t.Errorf("values = %+v", values)
	}
}

func TestGoogleClient_BackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewGoogleClient("stale")
	c.sheetsURL = srv.URL

	if _, err := c.Values(context.Background(), "abc123", "Sheet1"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestNewGoogleClientFromTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"token": "secret"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := NewGoogleClientFromTokenFile(path)
	if err != nil {
		t.Fatalf("NewGoogleClientFromTokenFile: %v", err)
	}
	if c.token != "secret" {
		t.Errorf("token = %q", c.token)
	}

	empty := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(empty, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewGoogleClientFromTokenFile(empty); err == nil {
		t.Fatal("expected error for token file without token")
	}
	if _, err := NewGoogleClientFromTokenFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing token file")
	}
}
