package storage

import "strings"

// TrackingInfo is the metadata a processor may embed into a blob so the
// stored copy can identify itself back to the service.
type TrackingInfo struct {
	DocumentID     string
	VersionLabel   string
	CheckUpdateURL string
}

// Processor rewrites a blob before it is persisted. Implementations must
// treat failure as advisory: the store falls back to the original bytes.
type Processor interface {
	Process(data []byte, info TrackingInfo) ([]byte, error)
}

// ProcessorRegistry dispatches post-processing by file extension.
type ProcessorRegistry struct {
	byExt map[string]Processor
}

// NewProcessorRegistry returns an empty registry
func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{byExt: make(map[string]Processor)}
}

// Register binds a processor to an extension (leading dot, lower case)
func (r *ProcessorRegistry) Register(ext string, p Processor) {
	r.byExt[strings.ToLower(ext)] = p
}

// Process runs the processor registered for ext, if any. Extensions
// without a processor pass through untouched.
func (r *ProcessorRegistry) Process(ext string, data []byte, info TrackingInfo) ([]byte, error) {
	p, ok := r.byExt[strings.ToLower(ext)]
	if !ok {
		return data, nil
	}
	return p.Process(data, info)
}
