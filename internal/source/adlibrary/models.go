package adlibrary

// CompanyAdsResponse is the body of GET /company/ads.
type CompanyAdsResponse struct {
	Results []APIAd `json:"results"`
	Cursor  string  `json:"cursor"`
}

type APIAd struct {
	AdArchiveID     string    `json:"ad_archive_id"`
	PageID          string    `json:"page_id"`
	PageName        string    `json:"page_name"`
	IsActive        bool      `json:"is_active"`
	URL             string    `json:"url"`
	StartDateString string    `json:"start_date_string"`
	EndDateString   string    `json:"end_date_string"`
	Snapshot        *Snapshot `json:"snapshot"`
}

type Snapshot struct {
	Title    *string `json:"title"`
	PageName string  `json:"page_name"`
	Body     *struct {
		Text string `json:"text"`
	} `json:"body"`
}
