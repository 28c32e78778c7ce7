package model

type FileContent struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

type SearchResult struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

type SearchData struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}
