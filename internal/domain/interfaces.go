package domain

import "context"

// UploadService submits a document to the indexing service.
type UploadService interface {
	Submit(ctx context.Context, data []byte, filename string) (DocumentRecord, error)
}

// QueryService asks a question against an indexed document.
type QueryService interface {
	Ask(ctx context.Context, documentID, question string) (QueryResult, error)
}
