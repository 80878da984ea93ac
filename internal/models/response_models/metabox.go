package response_models

// MetaBox is the per-content vote tally shown to administrators.
type MetaBox struct {
	PostID        uint    `json:"post_id"`
	Pro           int64   `json:"pro"`
	Contra        int64   `json:"contra"`
	ProPercent    float64 `json:"pro_percent"`
	ContraPercent float64 `json:"contra_percent"`
	Hide          bool    `json:"hide"`
}
