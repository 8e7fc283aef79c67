package coda

// Doc represents a Coda document.
type Doc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page represents a page within a document.
type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Table represents a table within a document. Parent carries the page the
// table sits on.
type Table struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Parent ParentRef `json:"parent"`
}

// ParentRef is the parent reference reported on a table.
type ParentRef struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// Column represents one table column. Order within a listing follows the
// table's display order.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Row is one table record keyed by column name after id resolution.
// Values are opaque: scalar, list, or structured depending on the cell type.
type Row map[string]any

// List endpoints wrap their results in an items envelope.
type docsResponse struct {
	Items []Doc `json:"items"`
}

type pagesResponse struct {
	Items []Page `json:"items"`
}

type tablesResponse struct {
	Items []Table `json:"items"`
}

type columnsResponse struct {
	Items []Column `json:"items"`
}

type rowsResponse struct {
	Items []rowItem `json:"items"`
}

// rowItem is the wire form of a row: values keyed by column id.
type rowItem struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}
