package model

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// EntityID derives the deterministic identifier for (kind, qualifiedName).
// It is called identically from Pass 1 and Pass 2 — that equality is the
// contract that lets a resolver reconstruct a node's id by rebuilding its
// qualifiedName and hashing it the same way.
func EntityID(kind Kind, qualifiedName string) string {
	h := xxh3.New()
	_, _ = h.WriteString(string(kind))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(qualifiedName)
	return string(kind) + "_" + hex.EncodeToString(h.Sum(nil))
}

// FileQualifiedName builds the qualifiedName for a File node (§3.3).
func FileQualifiedName(normalizedAbsPath string) string {
	return normalizedAbsPath
}

// ContainerQualifiedName builds the qualifiedName for a class/interface/
// struct/enum keyed by file path, or by package/namespace when the
// language groups containers that way.
func ContainerQualifiedName(filePath, name string) string {
	return filePath + ":" + name
}

// PackageQualifiedName builds the qualifiedName for a container addressed
// by package or namespace rather than file (Java classes, C# types, Go
// receiver structs).
func PackageQualifiedName(pkgOrNamespace, name string) string {
	return pkgOrNamespace + "." + name
}

// FunctionQualifiedName builds the qualifiedName for a function
// declaration, function expression, or variable-assigned arrow function.
// The trailing line disambiguates multiple same-named function-likes.
func FunctionQualifiedName(filePath, name string, startLine int) string {
	return filePath + ":" + name + ":" + strconv.Itoa(startLine)
}

// MethodQualifiedName builds the qualifiedName for a method. No line
// number: method names are unique within their container.
func MethodQualifiedName(filePath, parentName, methodName string) string {
	return filePath + ":" + parentName + "." + methodName
}

// ParameterQualifiedName builds the qualifiedName for a parameter,
// scoped under its owning function's entityId.
func ParameterQualifiedName(parentFunctionEntityID, paramName string) string {
	return parentFunctionEntityID + ":" + paramName
}

// VariableQualifiedName builds the qualifiedName for a variable.
func VariableQualifiedName(filePath, name string, startLine int) string {
	return filePath + ":" + name + ":" + strconv.Itoa(startLine)
}

// ImportQualifiedName builds the qualifiedName for an import/include/using
// statement. kindPrefix disambiguates import-like statements from other
// kinds sharing the same (filePath, specifier, line) coordinates.
func ImportQualifiedName(kindPrefix, filePath, specifier string, startLine int) string {
	return kindPrefix + ":" + filePath + ":" + specifier + ":" + strconv.Itoa(startLine)
}

// RelationshipQualifiedName builds the qualifiedName for an edge. extra
// (e.g. a call-site line) is appended when present, to disambiguate
// multiple edges between the same two entityIds.
func RelationshipQualifiedName(sourceEntityID, targetEntityID string, extra ...string) string {
	qn := sourceEntityID + ":" + targetEntityID
	if len(extra) > 0 {
		qn += ":" + strings.Join(extra, ":")
	}
	return qn
}

// RelationshipEntityID derives the deterministic id for an edge of the
// given type between two entityIds.
func RelationshipEntityID(relType RelType, sourceEntityID, targetEntityID string, extra ...string) string {
	return EntityID(Kind(relType), RelationshipQualifiedName(sourceEntityID, targetEntityID, extra...))
}

// NormalizePath converts backslash path separators to '/'. It does not
// make a relative path absolute or clean it in any other way.
func NormalizePath(absPath string) string {
	return strings.ReplaceAll(absPath, "\\", "/")
}

// PlaceholderID computes a syntactically well-formed entityId for a target
// that is not known to exist in the merged index (§3.5 invariant 1). It is
// indistinguishable in shape from a real id — the only signal that it is a
// placeholder is the edge's own properties.isPlaceholder flag.
func PlaceholderID(kind Kind, specifier string) string {
	return EntityID(kind, fmt.Sprintf("placeholder:%s", specifier))
}
