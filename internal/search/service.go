package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/pkg/pagination"
)

// NovelLocalizer overlays translated titles and synopses onto novel results.
type NovelLocalizer interface {
	Localize(context context.Context, novels []*novel.Novel, lang string) error
}

type Service struct {
	repo      Repository
	localizer NovelLocalizer
	logger    *slog.Logger
}

func NewService(repo Repository, localizer NovelLocalizer, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		localizer: localizer,
		logger:    logger,
	}
}

/*
Search runs a catalogue search for one kind of resource.

Description: The term is trimmed and must be 2 to 100 characters. Novel
results are localized to lang the same way the novel listing is.
*/
func (service *Service) Search(context context.Context, query Query, lang string, page pagination.Params) (*Result, error) {
	term := strings.TrimSpace(query.Term)
	kind := Kind(strings.ToLower(strings.TrimSpace(query.Kind)))
	if kind == "" {
		kind = KindNovels
	}

	validator := &validate.Validator{}
	validator.Required(FieldQuery, term)
	if term != "" {
		validator.MinLen(FieldQuery, term, MinTermLen).MaxLen(FieldQuery, term, MaxTermLen)
	}
	validator.OneOf(FieldType, string(kind), string(KindNovels), string(KindAuthors))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var (
		results any
		total   int
		err     error
	)

	switch kind {
	case KindAuthors:
		results, total, err = service.repo.SearchAuthors(context, term, page.Limit, page.Offset())
	default:
		var novels []*novel.Novel
		novels, total, err = service.repo.SearchNovels(context, term, page.Limit, page.Offset())
		if err == nil {
			err = service.localizer.Localize(context, novels, lang)
		}
		results = novels
	}
	if err != nil {
		return nil, err
	}

	service.logger.DebugContext(context, "search_executed",
		slog.String("type", string(kind)),
		slog.Int("total", total),
	)

	return &Result{
		Type:    kind,
		Query:   term,
		Results: results,
		Meta:    pagination.NewMeta(page.Page, page.Limit, total),
	}, nil
}
