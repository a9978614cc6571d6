package domain

import (
	"time"
)

// Project represents one portfolio project in one language. The same slug
// may appear once per language.
type Project struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	Language         string    `json:"language"`
	Title            string    `json:"title"`
	Subtitle         string    `json:"subtitle,omitempty"`
	Description      string    `json:"description"`
	TechnicalDetails string    `json:"technical_details,omitempty"`
	TechStack        []string  `json:"tech_stack"`
	GitHubURL        string    `json:"github_url,omitempty"`
	DemoURL          string    `json:"demo_url,omitempty"`
	WebsiteURL       string    `json:"website_url,omitempty"`
	DocsURL          string    `json:"docs_url,omitempty"`
	ThumbnailURL     string    `json:"thumbnail_url,omitempty"`
	BannerURL        string    `json:"banner_url,omitempty"`
	Screenshots      []string  `json:"screenshots,omitempty"`
	StarsCount       *int      `json:"stars_count,omitempty"`
	ForksCount       *int      `json:"forks_count,omitempty"`
	Status           string    `json:"status,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	DisplayOrder     int       `json:"display_order"`
	IsComplete       bool      `json:"is_complete"`
	IsFeatured       bool      `json:"is_featured"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Experience represents one work experience entry in one language.
type Experience struct {
	ID               string     `json:"id"`
	Language         string     `json:"language"`
	Company          string     `json:"company"`
	CompanyURL       string     `json:"company_url,omitempty"`
	Location         string     `json:"location,omitempty"`
	Role             string     `json:"role"`
	EmploymentType   string     `json:"employment_type,omitempty"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	IsCurrent        bool       `json:"is_current"`
	Description      string     `json:"description"`
	Responsibilities []string   `json:"responsibilities,omitempty"`
	Achievements     []string   `json:"achievements,omitempty"`
	TechStack        []string   `json:"tech_stack,omitempty"`
	DisplayOrder     int        `json:"display_order"`
	IsVisible        bool       `json:"is_visible"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Certification represents one professional certification in one language.
type Certification struct {
	ID              string     `json:"id"`
	Language        string     `json:"language"`
	Name            string     `json:"name"`
	Issuer          string     `json:"issuer"`
	IssuerURL       string     `json:"issuer_url,omitempty"`
	CredentialID    string     `json:"credential_id,omitempty"`
	VerificationURL string     `json:"verification_url,omitempty"`
	DateObtained    time.Time  `json:"date_obtained"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	BadgeImageURL   string     `json:"badge_image_url,omitempty"`
	Category        string     `json:"category,omitempty"`
	DisplayOrder    int        `json:"display_order"`
	IsVisible       bool       `json:"is_visible"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Blog represents a reference to an externally hosted blog post.
type Blog struct {
	ID              string     `json:"id"`
	Language        string     `json:"language"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ExternalURL     string     `json:"external_url"`
	Category        string     `json:"category,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	PublishedDate   *time.Time `json:"published_date,omitempty"`
	ReadTimeMinutes *int       `json:"read_time_minutes,omitempty"`
	DisplayOrder    int        `json:"display_order"`
	IsVisible       bool       `json:"is_visible"`
	IsFeatured      bool       `json:"is_featured"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SearchResult is one full-text search hit across the content tables.
// Headline contains the matched fragment with <mark> tags around hits.
type SearchResult struct {
	Type     string  `json:"type"`
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Headline string  `json:"headline"`
	Rank     float32 `json:"rank"`
}
