package model

type DatabaseInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type TableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"rowCount"`
}

type ColumnInfo struct {
	CID          int     `json:"cid"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	NotNull      int     `json:"notnull"`
	DefaultValue *string `json:"dflt_value"`
	PK           int     `json:"pk"`
}

// TableRows is one page of a table, newest rows first. Total is the full
// row count taken in the same read transaction as Rows.
type TableRows struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int64            `json:"total"`
}
