package model

// ExtractedPage is the text of one document page. PageNumber starts at 1.
type ExtractedPage struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// AnalysisRequest is the input to a document analysis.
type AnalysisRequest struct {
	Pages      []ExtractedPage
	Frameworks []string
}
