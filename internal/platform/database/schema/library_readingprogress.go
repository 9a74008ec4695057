package schema

// LibraryReadingProgressTable represents the 'library.readingprogress' table
type LibraryReadingProgressTable struct {
	Table              string
	ID                 string
	UserID             string
	NovelID            string
	ChapterID          string
	ReadingPosition    string
	ProgressPercentage string
	LastReadAt         string
	CreatedAt          string
	UpdatedAt          string
}

// LibraryReadingProgress is the schema definition for library.readingprogress
var LibraryReadingProgress = LibraryReadingProgressTable{
	Table:              "library.readingprogress",
	ID:                 "id",
	UserID:             "userid",
	NovelID:            "novelid",
	ChapterID:          "chapterid",
	ReadingPosition:    "readingposition",
	ProgressPercentage: "progresspercentage",
	LastReadAt:         "lastreadat",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}
