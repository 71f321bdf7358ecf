package models

// Link is a supporting reference returned alongside an answer.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// QueryResult is the answer to one question.
type QueryResult struct {
	Answer string `json:"answer"`
	Links  []Link `json:"links"`
}

// NewQueryResult builds a result whose Links encode as an empty array rather than null.
func NewQueryResult(answer string, links []Link) *QueryResult {
	if links == nil {
		links = []Link{}
	}
	return &QueryResult{Answer: answer, Links: links}
}
