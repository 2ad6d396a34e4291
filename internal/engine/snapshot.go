package engine

// AccountSnapshot is a read-only projection of one account, taken at
// reporting time. It decouples report output from live account state and
// serializes directly.
type AccountSnapshot struct {
	Client    string `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}
