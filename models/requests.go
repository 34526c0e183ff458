package models

// Storage kinds accepted on ingestion requests.
const (
	StorageLocal  = "local"
	StorageRemote = "remote"
)

// IngestRequest asks for one PDF to be extracted, screened and indexed.
type IngestRequest struct {
	UniqueID      string `json:"unique_id" binding:"required"`
	SourceLocator string `json:"file_path" binding:"required"`
	StorageKind   string `json:"storage_kind"`
}

// IngestResponse reports the outcome of a single ingestion.
type IngestResponse struct {
	PagesProcessed int      `json:"pages_processed"`
	Stats          PiiStats `json:"pii_stats"`
}

// ChatRequest is a question against a set of document scopes.
type ChatRequest struct {
	ScopeIDs []string `json:"unique_ids" binding:"required"`
	Question string   `json:"question" binding:"required"`
	ModelID  string   `json:"model_id"`
}

// SummaryRequest asks for a description of everything indexed under
// the given scopes.
type SummaryRequest struct {
	ScopeIDs []string `json:"unique_ids" binding:"required"`
}

// DeleteRequest removes every indexed page of one source document.
type DeleteRequest struct {
	SourceLocator string `json:"file_path" binding:"required"`
}

// BulkRequest fans an operation out over several files under one scope.
type BulkRequest struct {
	UniqueID    string   `json:"unique_id" binding:"required"`
	FilePaths   []string `json:"file_paths" binding:"required"`
	StorageKind string   `json:"storage_kind"`
}

// BulkResponse acknowledges background processing of a bulk request.
type BulkResponse struct {
	Message        string `json:"message"`
	FilesToProcess int    `json:"files_to_process"`
}

// ListDocsRequest asks which source documents are indexed for scopes.
type ListDocsRequest struct {
	ScopeIDs []string `json:"unique_ids" binding:"required"`
}

// ManifestEntry is one row of an uploaded ingestion manifest.
type ManifestEntry struct {
	Name string `json:"name"`
}
