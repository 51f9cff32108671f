package wikipedia

// APIResponse is the top-level struct for the JSON response, including query results and pagination info.
type APIResponse struct {
	Query    Query    `json:"query"`
	Continue Continue `json:"continue"`
}

// Continue holds the continuation token for the next API request, essential for pagination.
type Continue struct {
	CMContinue string `json:"cmcontinue"`
	Continue   string `json:"continue"`
}

// Query contains the results of the API query, specifically the list of category members.
type Query struct {
	CategoryMembers []CategoryMember `json:"categorymembers"`
}

// CategoryMember represents a single page or subcategory. NS=14 for categories, NS=0 for articles.
type CategoryMember struct {
	PageID int    `json:"pageid"`
	NS     int    `json:"ns"`
	Title  string `json:"title"`
}

// PageAPIResponse is the top-level struct for a page property query.
type PageAPIResponse struct {
	Query PageQuery `json:"query"`
}

// PageQuery contains the pages map from a page query, keyed by page id.
type PageQuery struct {
	Pages map[string]Page `json:"pages"`
}

// Page carries whichever props were requested.
type Page struct {
	PageID      int          `json:"pageid"`
	Title       string       `json:"title"`
	Coordinates []Coordinate `json:"coordinates,omitempty"`
	Extract     string       `json:"extract,omitempty"`
	Categories  []PageLink   `json:"categories,omitempty"`
}

// Coordinate is one entry of prop=coordinates; the first is the primary one.
type Coordinate struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Primary string  `json:"primary,omitempty"`
}

type PageLink struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}
