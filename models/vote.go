package models

const DefaultMaxVotes = 1

type VoteOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type VoteSettings struct {
	Enabled     bool `json:"enabled"`
	MaxVotes    int  `json:"max_votes"`
	ShowResults bool `json:"show_results"`
}

type VoteResult struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
	Votes    int    `json:"votes"`
}
