package rag

// ItemResult is the outcome of indexing one document. Err is nil on success.
type ItemResult struct {
	ID  string
	Err error
}

// BatchReport collects one ItemResult per input document, in input order.
type BatchReport struct {
	Results []ItemResult
}

func (r BatchReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

func (r BatchReport) Failed() []ItemResult {
	var out []ItemResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

func (r BatchReport) FailedIDs() []string {
	failed := r.Failed()
	ids := make([]string, 0, len(failed))
	for _, res := range failed {
		ids = append(ids, res.ID)
	}
	return ids
}
