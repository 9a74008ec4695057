// Package genre exposes the genre vocabulary derived from novel genre tags.
//
// Genres are not a table of their own: they are the distinct tags that
// active novels carry, grouped case-insensitively.
package genre

// Genre is one distinct genre tag and how many active novels carry it.
type Genre struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	NovelCount int    `json:"novel_count"`
}
