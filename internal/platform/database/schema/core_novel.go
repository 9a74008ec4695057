package schema

// CoreNovelTable represents the 'core.novel' table
type CoreNovelTable struct {
	Table             string
	ID                string
	Slug              string
	Title             string
	TitleTranslated   string
	AuthorID          string
	OriginalLanguage  string
	Synopsis          string
	CoverImageURL     string
	SourceURL         string
	PublicationStatus string
	TranslationStatus string
	GenreTags         string
	TotalChapters     string
	ViewCount         string
	FavoriteCount     string
	AverageRating     string
	FirstPublishedAt  string
	IsActive          string
	CreatedAt         string
	UpdatedAt         string
}

// CoreNovel is the schema definition for core.novel
var CoreNovel = CoreNovelTable{
	Table:             "core.novel",
	ID:                "id",
	Slug:              "slug",
	Title:             "title",
	TitleTranslated:   "titletranslated",
	AuthorID:          "authorid",
	OriginalLanguage:  "originallanguage",
	Synopsis:          "synopsis",
	CoverImageURL:     "coverimageurl",
	SourceURL:         "sourceurl",
	PublicationStatus: "publicationstatus",
	TranslationStatus: "translationstatus",
	GenreTags:         "genretags",
	TotalChapters:     "totalchapters",
	ViewCount:         "viewcount",
	FavoriteCount:     "favoritecount",
	AverageRating:     "averagerating",
	FirstPublishedAt:  "firstpublishedat",
	IsActive:          "isactive",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

func (t CoreNovelTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Title, t.TitleTranslated, t.AuthorID, t.OriginalLanguage, t.Synopsis, t.CoverImageURL, t.SourceURL, t.PublicationStatus, t.TranslationStatus, t.GenreTags, t.TotalChapters, t.ViewCount, t.FavoriteCount, t.AverageRating, t.FirstPublishedAt, t.IsActive, t.CreatedAt, t.UpdatedAt}
}
