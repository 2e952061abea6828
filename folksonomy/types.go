package folksonomy

// Tag is one key/value tag on a product. Version starts at 1 and must be
// incremented by one on every update.
type Tag struct {
	Product  string `json:"product"`
	Key      string `json:"k"`
	Value    string `json:"v"`
	Owner    string `json:"owner,omitempty"`
	Version  int    `json:"version,omitempty"`
	Editor   string `json:"editor,omitempty"`
	LastEdit string `json:"last_edit,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// ProductTag is a product matched by a key (and optionally a value).
type ProductTag struct {
	Product string `json:"product"`
	Key     string `json:"k"`
	Value   string `json:"v"`
}

// ProductStats summarizes the tags of one product.
type ProductStats struct {
	Product  string `json:"product"`
	Keys     int    `json:"keys"`
	Editors  int    `json:"editors"`
	LastEdit string `json:"last_edit"`
}

// Key is a tag key with usage counts.
type Key struct {
	Key    string `json:"k"`
	Count  int    `json:"count"`
	Values int    `json:"values"`
}

// Value is one distinct value of a key.
type Value struct {
	Value        string `json:"v"`
	ProductCount int    `json:"product_count"`
}

// Ping is the health check answer.
type Ping struct {
	Ping string `json:"ping"`
}
