package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishGenerated("eric", 42)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: site.generated") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"person":"eric"`) {
			t.Errorf("missing person in %q", s)
		}
		if !strings.Contains(s, `"total_items":42`) {
			t.Errorf("missing total in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("client channel should be closed after broker close")
	}
	if b.ClientCount() != 0 {
		t.Errorf("count after close = %d", b.ClientCount())
	}
	// Publishing after close must not panic or block.
	b.PublishGenerated("eric", 1)
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	srv := httptest.NewServer(b)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content type = %q", got)
	}

	// Wait until the handler has registered before publishing.
	deadline := time.Now().Add(time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	b.PublishGenerated("randi", 3)

	buf := make([]byte, 512)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if !strings.Contains(string(buf[:n]), "site.generated") {
		t.Errorf("stream = %q", buf[:n])
	}
}
