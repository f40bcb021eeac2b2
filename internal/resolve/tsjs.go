package resolve

import (
	"github.com/codegraph/codegraph/internal/merge"
	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/parse/tsjs"
)

// resolveTSJS implements §4.5.2's TS/JS resolvers: module resolution for
// Import nodes, and re-resolution of the EXTENDS/IMPLEMENTS/
// USES_COMPONENT placeholder edges Pass 1 emitted by name, against the
// shared project's per-file export table plus the merged node index
// (acting as the "language service" §4.5.1 describes, without an actual
// TypeScript compiler host).
func resolveTSJS(idx *merge.Index, project *tsjs.Project) int {
	if project == nil {
		return 0
	}
	count := 0
	count += resolveTSJSImports(idx, project)
	count += resolveTSJSPlaceholders(idx, project)
	return count
}

// resolveTSJSImports walks every Import node and, for each named or
// default import, looks up the matching export in the target file's
// FileSymbols entry, emitting RESOLVES_IMPORT on a hit.
func resolveTSJSImports(idx *merge.Index, project *tsjs.Project) int {
	count := 0
	for _, n := range idx.Nodes {
		if n.Kind != model.KindImport {
			continue
		}
		specifier, _ := n.Properties["moduleSpecifier"].(string)
		if specifier == "" {
			continue
		}
		sourceFile := idx.FindByFilePath(n.FilePath)
		targetPath, ok := resolveModuleSpecifier(project, n.FilePath, specifier)
		if !ok {
			if sourceFile != nil {
				targetID := model.PlaceholderID(model.KindFile, specifier)
				edge := &model.Relationship{
					EntityID: model.RelationshipEntityID(model.RelImports, sourceFile.EntityID, targetID, "file"),
					Type:     model.RelImports, SourceID: sourceFile.EntityID, TargetID: targetID,
				}
				edge.SetProp("isPlaceholder", true)
				edge.SetProp("targetName", specifier)
				idx.AddRelationships(edge)
			}
			continue
		}
		targetFile := idx.FindByFilePath(targetPath)
		if sourceFile != nil && targetFile != nil {
			idx.AddRelationships(&model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelImports, sourceFile.EntityID, targetFile.EntityID, "file"),
				Type:     model.RelImports, SourceID: sourceFile.EntityID, TargetID: targetFile.EntityID,
			})
		}

		symbols := project.Files[targetPath]
		if symbols == nil {
			continue
		}

		defaultImport, _ := n.Properties["defaultImport"].(string)
		if defaultImport != "" {
			if exp := findDefaultExport(symbols); exp != nil {
				idx.AddRelationships(resolvesImport(n, exp))
				count++
			}
		}

		named, _ := n.Properties["namedImports"].([]string)
		for _, name := range named {
			if exp := findNamedExport(symbols, name); exp != nil {
				idx.AddRelationships(resolvesImport(n, exp))
				count++
			}
		}
	}
	return count
}

func resolvesImport(importNode *model.Node, exp *tsjs.Export) *model.Relationship {
	return &model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelResolvesImport, importNode.EntityID, exp.EntityID),
		Type:     model.RelResolvesImport, SourceID: importNode.EntityID, TargetID: exp.EntityID,
	}
}

func findDefaultExport(symbols *tsjs.FileSymbols) *tsjs.Export {
	for i := range symbols.Exports {
		if symbols.Exports[i].IsDefaultExport {
			return &symbols.Exports[i]
		}
	}
	return nil
}

func findNamedExport(symbols *tsjs.FileSymbols, name string) *tsjs.Export {
	for i := range symbols.Exports {
		if symbols.Exports[i].Name == name && !symbols.Exports[i].IsDefaultExport {
			return &symbols.Exports[i]
		}
	}
	return nil
}

// resolveModuleSpecifier implements the "fall back to a path-resolution
// routine" clause of §4.5.2: relative specifiers are resolved against the
// importing file's directory; absolute/package specifiers are left
// unresolved (no node_modules resolution in this engine).
func resolveModuleSpecifier(project *tsjs.Project, fromFile, specifier string) (string, bool) {
	if len(specifier) == 0 || specifier[0] != '.' {
		return "", false
	}
	resolved := joinPath(dirOf(fromFile), specifier)
	for _, suffix := range []string{"", ".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js"} {
		candidate := resolved + suffix
		if _, ok := project.Files[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func joinPath(dir, rel string) string {
	cleaned := rel
	for len(cleaned) >= 2 && cleaned[:2] == "./" {
		cleaned = cleaned[2:]
	}
	for len(cleaned) >= 3 && cleaned[:3] == "../" {
		dir = dirOf(dir)
		cleaned = cleaned[3:]
	}
	if dir == "" || dir == "." {
		return cleaned
	}
	return dir + "/" + cleaned
}

// resolveTSJSPlaceholders re-resolves EXTENDS/IMPLEMENTS/USES_COMPONENT
// placeholder edges Pass 1 emitted by name, by looking for an export with
// that name in any file of the project. The declaring file is not
// preferred, and unexported declarations are not considered.
func resolveTSJSPlaceholders(idx *merge.Index, project *tsjs.Project) int {
	count := 0
	for _, rel := range idx.Relationships {
		if !rel.IsPlaceholder() {
			continue
		}
		switch rel.Type {
		case model.RelExtends, model.RelImplements, model.RelUsesComponent:
		default:
			continue
		}
		targetName, _ := rel.Properties["targetName"].(string)
		if targetName == "" {
			continue
		}
		if real := findExportByNameAcrossProject(idx, project, targetName); real != nil {
			rel.TargetID = real.EntityID
			delete(rel.Properties, "isPlaceholder")
			count++
		}
	}
	return count
}

func findExportByNameAcrossProject(idx *merge.Index, project *tsjs.Project, name string) *model.Node {
	for _, symbols := range project.Files {
		for _, exp := range symbols.Exports {
			if exp.Name == name {
				if n := idx.Lookup(exp.EntityID); n != nil {
					return n
				}
			}
		}
	}
	return nil
}
