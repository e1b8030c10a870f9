package feed

import "github.com/cohortlabs/worksync/internal/services/project"

// PlaceholderAuthor labels entries whose author has no resolvable profile.
const PlaceholderAuthor = "Teammate"

// Limit caps the feed at the most recent entries.
const Limit = 50

// FeedEntry is a read-model: a shared project enriched with its author's
// display name. It is never persisted.
type FeedEntry struct {
	project.Project
	AuthorName string `json:"author_name"`
}
