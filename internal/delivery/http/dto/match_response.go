package dto

type MatchingProfileResponse struct {
	PublicProfileResponse
	SharedInterestCount int `json:"shared_interest_count"`
}

type MatchingPageResponse struct {
	Count    int                       `json:"count"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	Results  []MatchingProfileResponse `json:"results"`
}
