package discogs

// CollectionItem is one entry of a user's collection folder.
type CollectionItem struct {
	ID               int              `json:"id"`
	InstanceID       int              `json:"instance_id"`
	DateAdded        string           `json:"date_added"`
	BasicInformation BasicInformation `json:"basic_information"`
}

// BasicInformation is the release summary embedded in a collection item.
type BasicInformation struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Artists []Artist `json:"artists"`
	Labels  []Label  `json:"labels"`
	Formats []Format `json:"formats"`
}

// Artist is a credited release artist.
type Artist struct {
	Name string `json:"name"`
}

// Label is a release label with its catalog number.
type Label struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

// Format describes one physical format of a release, e.g. Vinyl with
// descriptions ["12\"", "33 ⅓ RPM"].
type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Text         string   `json:"text"`
	Descriptions []string `json:"descriptions"`
}

// ExtraArtist is a credit attached to a release or a single track.
type ExtraArtist struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Track is one tracklist entry of a release.
type Track struct {
	Position     string        `json:"position"`
	Type         string        `json:"type_"`
	Title        string        `json:"title"`
	Duration     string        `json:"duration"`
	ExtraArtists []ExtraArtist `json:"extraartists"`
}

// ReleaseDetail is the full release resource returned by /releases/{id}.
type ReleaseDetail struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Released     string        `json:"released"`
	Year         int           `json:"year"`
	Artists      []Artist      `json:"artists"`
	Labels       []Label       `json:"labels"`
	ExtraArtists []ExtraArtist `json:"extraartists"`
	Tracklist    []Track       `json:"tracklist"`
}

// collectionResponse is the JSON response for a collection folder page.
type collectionResponse struct {
	Pagination struct {
		Page    int `json:"page"`
		Pages   int `json:"pages"`
		PerPage int `json:"per_page"`
		Items   int `json:"items"`
	} `json:"pagination"`
	Releases []CollectionItem `json:"releases"`
}

// apiError represents a Discogs API error body.
type apiError struct {
	Message string `json:"message"`
}
