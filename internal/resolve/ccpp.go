package resolve

import (
	"strings"

	"github.com/codegraph/codegraph/internal/merge"
	"github.com/codegraph/codegraph/internal/model"
)

// resolveCIncludes implements §4.5.3: for each IncludeDirective node,
// emit a File-INCLUDES->File edge, matching first by exact filePath and
// then by path suffix (so "#include \"util.h\"" can match
// "src/lib/util.h"). Unmatched includes get a placeholder target
// computed from the include path string verbatim.
func resolveCIncludes(idx *merge.Index) int {
	count := 0
	for _, n := range idx.Nodes {
		if n.Kind != model.KindIncludeDirective {
			continue
		}
		specifier, _ := n.Properties["specifier"].(string)
		if specifier == "" {
			continue
		}
		sourceFile := idx.FindByFilePath(n.FilePath)
		if sourceFile == nil {
			continue
		}

		target := findIncludeTarget(idx, specifier)
		var rel *model.Relationship
		if target != nil {
			rel = &model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelIncludes, sourceFile.EntityID, target.EntityID),
				Type:     model.RelIncludes, SourceID: sourceFile.EntityID, TargetID: target.EntityID,
			}
		} else {
			targetID := model.PlaceholderID(model.KindFile, specifier)
			rel = &model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelIncludes, sourceFile.EntityID, targetID),
				Type:     model.RelIncludes, SourceID: sourceFile.EntityID, TargetID: targetID,
			}
			rel.SetProp("isPlaceholder", true)
		}
		idx.AddRelationships(rel)
		count++
	}
	return count
}

func findIncludeTarget(idx *merge.Index, includePath string) *model.Node {
	if n := idx.FindByFilePath(includePath); n != nil {
		return n
	}
	var suffixMatch *model.Node
	for _, n := range idx.Nodes {
		if n.Kind != model.KindFile {
			continue
		}
		if strings.HasSuffix(n.FilePath, "/"+includePath) || strings.HasSuffix(n.FilePath, includePath) {
			suffixMatch = n
			break
		}
	}
	return suffixMatch
}
