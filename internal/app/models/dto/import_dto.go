package dto

// ImportRowError is one row-level failure in an import report
type ImportRowError struct {
	Row   int    `json:"row" example:"3"`
	Error string `json:"error" example:"Duplicate studentId in file: 2024-00001"`
}

// ImportRowDetail carries the raw values of a failed row so operators can
// export and fix them
type ImportRowDetail struct {
	Row    int               `json:"row" example:"3"`
	Values map[string]string `json:"values"`
	Error  string            `json:"error"`
}

// ImportReport is the always-returned outcome of a batch import. The batch
// never aborts on row-level problems; they are collected here instead.
type ImportReport struct {
	BatchID     string            `json:"batchId" example:"8a3f0f04-6f3e-4a6f-9f0e-0a4b8d7c6e5d"`
	Created     int               `json:"created" example:"40"`
	Skipped     int               `json:"skipped" example:"2"`
	Errors      []ImportRowError  `json:"errors"`
	InvalidRows []ImportRowDetail `json:"invalidRows"`
}
