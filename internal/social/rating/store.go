package rating

import "context"

// Repository defines the data access contract for ratings.
type Repository interface {
	// ListRatings returns a page of a novel's ratings, newest first, with the
	// author of each rating embedded.
	ListRatings(context context.Context, novelID, limit, offset int) ([]*Rating, int, error)

	// GetRating returns the caller's rating of a novel, or a 404 AppError.
	GetRating(context context.Context, userID string, novelID int) (*Rating, error)

	/*
		UpsertRating inserts or replaces the (user, novel) rating and refreshes
		the novel's average.

		Returns:
		  - bool: true when a new row was inserted
		  - error: 404 when the novel does not exist
	*/
	UpsertRating(context context.Context, rating *Rating) (bool, error)

	// DeleteRating removes the caller's rating and refreshes the average.
	DeleteRating(context context.Context, userID string, novelID int) error
}
