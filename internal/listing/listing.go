package listing

import "time"

// Opportunity is one scored record in the listing. Immutable within a
// browsing session: the TUI only accumulates or replaces these wholesale.
type Opportunity struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary,omitempty"`
	Score       float64      `json:"score"`
	Viable      bool         `json:"viable"`
	SourceGroup string       `json:"sourceGroup,omitempty"`
	Category    string       `json:"category,omitempty"`
	Platform    string       `json:"platform,omitempty"`
	Audience    string       `json:"audience,omitempty"`
	Vertical    string       `json:"vertical,omitempty"`
	Niche       string       `json:"niche,omitempty"`
	SourceItems []SourceItem `json:"sourceItems,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// SourceItem is a community post or feed entry an opportunity was mined from.
type SourceItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published,omitempty"`
}

// Pagination is the server-reported page metadata. TotalCount is
// authoritative; clients must never derive it from local list length.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// FacetOption is one selectable value within a facet dimension.
type FacetOption struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Stats are collection-wide aggregates, independent of the current filters.
type Stats struct {
	TotalCount  int     `json:"totalCount"`
	ViableCount int     `json:"viableCount"`
	AvgScore    float64 `json:"avgScore"`
}

// Page is one listing endpoint response.
type Page struct {
	Opportunities []Opportunity            `json:"opportunities"`
	Pagination    Pagination               `json:"pagination"`
	Facets        map[string][]FacetOption `json:"facets,omitempty"`
	Stats         *Stats                   `json:"stats,omitempty"`
}
