package models

// ArtifactKind names the role of a generated file.
type ArtifactKind string

const (
	KindController ArtifactKind = "controller"
	KindModel      ArtifactKind = "model"
	KindLanguage   ArtifactKind = "language"
	KindView       ArtifactKind = "view"
	KindManifest   ArtifactKind = "manifest"
	KindDocument   ArtifactKind = "document"
)

// GeneratedArtifact is one file produced by a generator, relative to the output base.
type GeneratedArtifact struct {
	RelPath string
	Content string
	Kind    ArtifactKind
}

// WriteResult describes what happened to one artifact on disk.
type WriteResult struct {
	Path    string
	Hash    uint64
	Changed bool
	Bytes   int
}

// Result is everything a generator run produced.
type Result struct {
	Generator string
	Request   *Request
	Base      string
	Artifacts []GeneratedArtifact
	Written   []WriteResult
	Warnings  []string
	DryRun    bool
}
