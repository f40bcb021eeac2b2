// Package merge implements the Pass-1/Pass-2 boundary: ingesting a stream
// of per-file parse results into one deduplicated node/edge set and a
// read-only index for the resolvers (§4.6).
package merge

import (
	"log/slog"

	"github.com/codegraph/codegraph/internal/model"
)

// Index is the merged, deduplicated output of Pass 1: a node map keyed by
// entityId, the full relationship list, and bookkeeping on which file
// first produced each entityId (used to tell an intra-file duplicate
// from a cross-file one).
type Index struct {
	Nodes         map[string]*model.Node
	Relationships []*model.Relationship

	firstSeenFile map[string]string

	IntraFileDuplicates int
	CrossFileDuplicates int
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		Nodes:         make(map[string]*model.Node),
		firstSeenFile: make(map[string]string),
	}
}

// Merge folds one file's parse result into the index. Last-write-wins on
// a duplicate entityId (§9 open question, resolved in DESIGN.md):
// whichever file is merged last overwrites the node's properties. An
// intra-file duplicate (the same file emitting the same entityId twice)
// is logged at Debug; a cross-file duplicate is logged at Warn, since it
// usually signals an entityId-construction bug rather than legitimate
// reuse.
func (idx *Index) Merge(result *model.SingleFileParseResult) {
	seenThisFile := make(map[string]bool, len(result.Nodes))

	for _, n := range result.Nodes {
		if seenThisFile[n.EntityID] {
			idx.IntraFileDuplicates++
			slog.Debug("merge.duplicate.intrafile", "entityId", n.EntityID, "file", result.FilePath)
		} else if firstFile, ok := idx.firstSeenFile[n.EntityID]; ok && firstFile != result.FilePath {
			idx.CrossFileDuplicates++
			slog.Warn("merge.duplicate.crossfile", "entityId", n.EntityID, "firstFile", firstFile, "file", result.FilePath)
		}
		seenThisFile[n.EntityID] = true
		if _, ok := idx.firstSeenFile[n.EntityID]; !ok {
			idx.firstSeenFile[n.EntityID] = result.FilePath
		}
		idx.Nodes[n.EntityID] = n
	}

	idx.Relationships = append(idx.Relationships, result.Relationships...)
}

// MergeAll folds every result in results into a fresh Index.
func MergeAll(results []*model.SingleFileParseResult) *Index {
	idx := NewIndex()
	for _, r := range results {
		if r == nil {
			continue
		}
		idx.Merge(r)
	}
	return idx
}

// Lookup returns the node registered under entityId, or nil.
func (idx *Index) Lookup(entityID string) *model.Node {
	return idx.Nodes[entityID]
}

// FindByFilePath returns the File node for a given filePath, or nil. It
// is a linear scan over every node, repeated on each call (the Pass-2
// resolvers call it once per import/include they resolve).
func (idx *Index) FindByFilePath(filePath string) *model.Node {
	for _, n := range idx.Nodes {
		if n.Kind == model.KindFile && n.FilePath == filePath {
			return n
		}
	}
	return nil
}

// AddRelationships appends edges produced by Pass 2 resolvers to the
// merged set.
func (idx *Index) AddRelationships(rels ...*model.Relationship) {
	idx.Relationships = append(idx.Relationships, rels...)
}
