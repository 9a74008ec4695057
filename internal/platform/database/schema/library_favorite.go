package schema

// LibraryFavoriteTable represents the 'library.favorite' table
type LibraryFavoriteTable struct {
	Table   string
	ID      string
	UserID  string
	NovelID string
	AddedAt string
}

// LibraryFavorite is the schema definition for library.favorite
var LibraryFavorite = LibraryFavoriteTable{
	Table:   "library.favorite",
	ID:      "id",
	UserID:  "userid",
	NovelID: "novelid",
	AddedAt: "addedat",
}
