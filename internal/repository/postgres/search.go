package postgres

import (
	"context"
	"fmt"

	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	"github.com/CarterPerez-dev/my-portfolio/pkg/database"
)

// SearchRepository implements repository.SearchRepository using PostgreSQL
// full-text search.
type SearchRepository struct {
	db database.DBTX
}

// NewSearchRepository creates a new PostgreSQL-backed search repository.
func NewSearchRepository(db database.DBTX) *SearchRepository {
	return &SearchRepository{db: db}
}

// searchConfig maps a content language to the text search configuration used
// for stemming. Languages without a stemmer (or non-Latin scripts) fall back
// to 'simple', which tokenizes without stemming. Must stay in sync with the
// search_config SQL function the GIN indexes are built on.
func searchConfig(language string) string {
	switch language {
	case domain.LanguageEnglish:
		return "english"
	case domain.LanguageSpanish:
		return "spanish"
	case domain.LanguageFrench:
		return "french"
	case domain.LanguagePortuguese:
		return "portuguese"
	default:
		return "simple"
	}
}

// Search runs a ranked full-text query across the content tables. Each arm of
// the union builds its tsvector with search_config(language), the same
// expression its GIN index covers, so the planner can use the indexes; the
// query side uses the matching config passed as $3. Headlines wrap matches in
// <mark> tags.
func (r *SearchRepository) Search(ctx context.Context, query, language string, limit int) ([]domain.SearchResult, error) {
	sql := `
		SELECT type, id, title, headline, rank FROM (
			SELECT 'project' AS type, id::text, title,
				ts_headline($3::regconfig, description, plainto_tsquery($3::regconfig, $1), 'StartSel=<mark>, StopSel=</mark>') AS headline,
				ts_rank(to_tsvector(search_config(language), title || ' ' || COALESCE(subtitle, '') || ' ' || description), plainto_tsquery($3::regconfig, $1)) AS rank
			FROM projects
			WHERE language = $2
			  AND to_tsvector(search_config(language), title || ' ' || COALESCE(subtitle, '') || ' ' || description) @@ plainto_tsquery($3::regconfig, $1)
			UNION ALL
			SELECT 'experience', id::text, company || ' - ' || role,
				ts_headline($3::regconfig, description, plainto_tsquery($3::regconfig, $1), 'StartSel=<mark>, StopSel=</mark>'),
				ts_rank(to_tsvector(search_config(language), company || ' ' || role || ' ' || description), plainto_tsquery($3::regconfig, $1))
			FROM experiences
			WHERE language = $2 AND is_visible
			  AND to_tsvector(search_config(language), company || ' ' || role || ' ' || description) @@ plainto_tsquery($3::regconfig, $1)
			UNION ALL
			SELECT 'certification', id::text, name,
				ts_headline($3::regconfig, name || ' ' || issuer, plainto_tsquery($3::regconfig, $1), 'StartSel=<mark>, StopSel=</mark>'),
				ts_rank(to_tsvector(search_config(language), name || ' ' || issuer), plainto_tsquery($3::regconfig, $1))
			FROM certifications
			WHERE language = $2 AND is_visible
			  AND to_tsvector(search_config(language), name || ' ' || issuer) @@ plainto_tsquery($3::regconfig, $1)
			UNION ALL
			SELECT 'blog', id::text, title,
				ts_headline($3::regconfig, description, plainto_tsquery($3::regconfig, $1), 'StartSel=<mark>, StopSel=</mark>'),
				ts_rank(to_tsvector(search_config(language), title || ' ' || description), plainto_tsquery($3::regconfig, $1))
			FROM blogs
			WHERE language = $2 AND is_visible
			  AND to_tsvector(search_config(language), title || ' ' || description) @@ plainto_tsquery($3::regconfig, $1)
		) hits
		ORDER BY rank DESC
		LIMIT $4`

	rows, err := r.db.Query(ctx, sql, query, language, searchConfig(language), limit)
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var res domain.SearchResult
		if err := rows.Scan(&res.Type, &res.ID, &res.Title, &res.Headline, &res.Rank); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}

	return results, nil
}
