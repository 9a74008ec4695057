package schema

// SocialRatingTable represents the 'social.rating' table
type SocialRatingTable struct {
	Table      string
	ID         string
	UserID     string
	NovelID    string
	Rating     string
	ReviewText string
	CreatedAt  string
	UpdatedAt  string
}

// SocialRating is the schema definition for social.rating
var SocialRating = SocialRatingTable{
	Table:      "social.rating",
	ID:         "id",
	UserID:     "userid",
	NovelID:    "novelid",
	Rating:     "rating",
	ReviewText: "reviewtext",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}
