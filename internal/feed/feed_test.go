package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/avasiliev/feedback-service/internal/models"
)

func TestBuild(t *testing.T) {
	user := &models.User{
		Username:  "alice",
		FirstName: "A",
		LastName:  "L",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	entries := []models.Feedback{
		{ID: 1, Title: "first", Content: "one", Username: "alice", CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Title: "second", Content: "two", Username: "alice", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	out, err := Build("http://localhost:8080", user, entries)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(out); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	root := doc.Root()
	if root.Tag != "feed" {
		t.Fatalf("expected <feed> root, got <%s>", root.Tag)
	}
	if got := len(root.SelectElements("entry")); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}
	if title := root.SelectElement("title"); title == nil || !strings.Contains(title.Text(), "A L") {
		t.Error("feed title missing the user's name")
	}
	// feed updated must be the newest entry's timestamp
	if updated := root.SelectElement("updated"); updated == nil || updated.Text() != "2026-03-01T00:00:00Z" {
		t.Errorf("unexpected feed updated element: %v", updated)
	}
}

func TestBuildEmptyFeed(t *testing.T) {
	user := &models.User{
		Username:  "alice",
		FirstName: "A",
		LastName:  "L",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	out, err := Build("http://localhost:8080", user, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(out); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if got := len(doc.Root().SelectElements("entry")); got != 0 {
		t.Errorf("expected no entries, got %d", got)
	}
	// falls back to the account creation time
	if updated := doc.Root().SelectElement("updated"); updated == nil || updated.Text() != "2026-01-01T00:00:00Z" {
		t.Errorf("unexpected feed updated element: %v", updated)
	}
}
