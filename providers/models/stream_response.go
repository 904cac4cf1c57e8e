package models

// StreamResponse is one chunk of a provider reply. The last chunk has Done set;
// a chunk with Err ends the stream.
type StreamResponse struct {
	Content string
	Done    bool
	Err     error
}
