package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/internal/repository"
	apperrors "github.com/CarterPerez-dev/my-portfolio/pkg/errors"
)

const (
	maxSearchQueryLength = 200
	defaultSearchLimit   = 20
	maxSearchLimit       = 50
)

// SearchService implements full-text search over the portfolio content.
type SearchService struct {
	searchRepo repository.SearchRepository
	logger     *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(searchRepo repository.SearchRepository, logger *slog.Logger) *SearchService {
	return &SearchService{
		searchRepo: searchRepo,
		logger:     logger,
	}
}

// Search runs a ranked query across projects, experiences, certifications,
// and blogs in one language.
func (s *SearchService) Search(ctx context.Context, query, language string, limit int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.InvalidInput("search query is required")
	}
	if len(query) > maxSearchQueryLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("search query must be at most %d characters", maxSearchQueryLength))
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := s.searchRepo.Search(ctx, query, domain.NormalizeLanguage(language), limit)
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}

	s.logger.DebugContext(ctx, "content search executed",
		slog.String("query", query),
		slog.Int("results", len(results)),
	)

	return results, nil
}
