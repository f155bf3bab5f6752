package model

// FileMetadata is the record kept for every analysed upload.
// It is also the exact response body of the analyse endpoint, so it carries
// no store-specific fields; repositories map it to their own documents.
type FileMetadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}
