package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table               string
	ID                  string
	NovelID             string
	ChapterNumber       string
	Title               string
	Content             string
	WordCount           string
	IsPublished         string
	PublishedAt         string
	TranslatorNotes     string
	OriginalChapterURL  string
	ReadingTimeEstimate string
	CreatedAt           string
	UpdatedAt           string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:               "core.chapter",
	ID:                  "id",
	NovelID:             "novelid",
	ChapterNumber:       "chapternumber",
	Title:               "title",
	Content:             "content",
	WordCount:           "wordcount",
	IsPublished:         "ispublished",
	PublishedAt:         "publishedat",
	TranslatorNotes:     "translatornotes",
	OriginalChapterURL:  "originalchapterurl",
	ReadingTimeEstimate: "readingtimeestimate",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

func (t CoreChapterTable) Columns() []string {
	return []string{t.ID, t.NovelID, t.ChapterNumber, t.Title, t.Content, t.WordCount, t.IsPublished, t.PublishedAt, t.TranslatorNotes, t.OriginalChapterURL, t.ReadingTimeEstimate, t.CreatedAt, t.UpdatedAt}
}
