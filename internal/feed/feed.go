// Package feed renders a user's feedback as an Atom document.
package feed

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/avasiliev/feedback-service/internal/models"
)

// Build returns the Atom feed for a user's feedback entries.
func Build(baseURL string, user *models.User, entries []models.Feedback) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("feed")
	root.CreateAttr("xmlns", "http://www.w3.org/2005/Atom")
	root.CreateElement("title").SetText(fmt.Sprintf("Feedback by %s %s", user.FirstName, user.LastName))
	root.CreateElement("id").SetText(fmt.Sprintf("%s/users/%s", baseURL, user.Username))

	link := root.CreateElement("link")
	link.CreateAttr("href", fmt.Sprintf("%s/users/%s", baseURL, user.Username))

	updated := user.CreatedAt
	for _, fb := range entries {
		if fb.CreatedAt.After(updated) {
			updated = fb.CreatedAt
		}
	}
	root.CreateElement("updated").SetText(updated.UTC().Format(time.RFC3339))

	author := root.CreateElement("author")
	author.CreateElement("name").SetText(user.Username)

	for _, fb := range entries {
		entry := root.CreateElement("entry")
		entry.CreateElement("title").SetText(fb.Title)
		entry.CreateElement("id").SetText(fmt.Sprintf("%s/feedback/%d", baseURL, fb.ID))
		entry.CreateElement("updated").SetText(fb.CreatedAt.UTC().Format(time.RFC3339))
		content := entry.CreateElement("content")
		content.CreateAttr("type", "text")
		content.SetText(fb.Content)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize feed: %w", err)
	}
	return out, nil
}
