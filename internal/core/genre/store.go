package genre

import "context"

// Repository aggregates genre tags over the novel catalogue.
type Repository interface {
	// ListGenres returns every genre ordered by novel count desc, then name.
	ListGenres(context context.Context) ([]*Genre, error)
}
