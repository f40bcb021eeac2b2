// Package python implements the Pass-1 parser for Python (§4.4). Python
// is the one language family not walked by a tree-sitter grammar in this
// engine: a subprocess runs the embedded walk_ast.py script against the
// standard library's ast module and reports back a JSON document shaped
// like model.SingleFileParseResult.
package python

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/xerrors"
)

//go:embed script/walk_ast.py
var walkASTScript []byte

// Interpreter is the python executable invoked for every file. Overridable
// in tests and by configuration for environments where "python3" is not
// on PATH.
var Interpreter = "python3"

// wireNode and wireRelationship carry (kind, qualifiedName) pairs rather
// than pre-hashed ids: the walker script never computes an entityId
// itself, so Go remains the single source of hashing truth across every
// parser (§3.3's "deterministic across runs and across parsers"
// guarantee, which a Python-side blake2b hash would silently violate).
type wireNode struct {
	Kind                string         `json:"kind"`
	QualifiedName       string         `json:"qualifiedName"`
	Name                string         `json:"name"`
	FilePath            string         `json:"filePath"`
	StartLine           int            `json:"startLine"`
	EndLine             int            `json:"endLine"`
	ParentKind          string         `json:"parentKind"`
	ParentQualifiedName string         `json:"parentQualifiedName"`
	Properties          map[string]any `json:"properties"`
}

type wireRelationship struct {
	Type                string         `json:"type"`
	SourceKind          string         `json:"sourceKind"`
	SourceQualifiedName string         `json:"sourceQualifiedName"`
	TargetKind          string         `json:"targetKind"`
	TargetQualifiedName string         `json:"targetQualifiedName"`
	Properties          map[string]any `json:"properties"`
}

type wireResult struct {
	FilePath      string             `json:"filePath"`
	Nodes         []wireNode         `json:"nodes"`
	Relationships []wireRelationship `json:"relationships"`
	Error         string             `json:"error"`
}

// Parse spawns the embedded walker script against filePath, converts its
// JSON output into a SingleFileParseResult, and computes every entityId
// on the Go side from the (kind, qualifiedName) pairs the script reports
// — the same model.EntityID used by the tree-sitter families — so a
// Python-parsed node hashes identically to how any other parser would
// hash the same (kind, qualifiedName). instanceIds and CreatedAt are
// also assigned here per §4.4 ("the Python side need not").
func Parse(ctx context.Context, scriptPath, filePath string, now time.Time) (*model.SingleFileParseResult, error) {
	cmd := exec.CommandContext(ctx, Interpreter, scriptPath, filePath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		if msg := extractErrorObject(stderr.Bytes()); msg != "" {
			return nil, xerrors.Parser(filePath, fmt.Errorf("%s", msg))
		}
		return nil, xerrors.Parser(filePath, fmt.Errorf("python exit: %w: %s", runErr, stderr.String()))
	}
	if msg := extractErrorObject(stderr.Bytes()); msg != "" {
		return nil, xerrors.Parser(filePath, fmt.Errorf("%s", msg))
	}

	var wire wireResult
	if err := json.Unmarshal(stdout.Bytes(), &wire); err != nil {
		return nil, xerrors.Parser(filePath, fmt.Errorf("decode walker output: %w", err))
	}
	if wire.FilePath == "" {
		return nil, xerrors.Parser(filePath, fmt.Errorf("walker output missing filePath"))
	}

	result := &model.SingleFileParseResult{FilePath: wire.FilePath}
	for _, n := range wire.Nodes {
		entityID := model.EntityID(model.Kind(n.Kind), n.QualifiedName)
		var parentID string
		if n.ParentQualifiedName != "" {
			parentID = model.EntityID(model.Kind(n.ParentKind), n.ParentQualifiedName)
		}
		result.Nodes = append(result.Nodes, &model.Node{
			EntityID:   entityID,
			InstanceID: uuid.NewString(),
			Kind:       model.Kind(n.Kind),
			Name:       n.Name,
			FilePath:   n.FilePath,
			Language:   "python",
			StartLine:  n.StartLine,
			EndLine:    n.EndLine,
			ParentID:   parentID,
			Properties: n.Properties,
			CreatedAt:  now,
		})
	}
	for _, r := range wire.Relationships {
		sourceID := model.EntityID(model.Kind(r.SourceKind), r.SourceQualifiedName)
		targetID := model.EntityID(model.Kind(r.TargetKind), r.TargetQualifiedName)
		result.Relationships = append(result.Relationships, &model.Relationship{
			EntityID:   model.RelationshipEntityID(model.RelType(r.Type), sourceID, targetID),
			Type:       model.RelType(r.Type),
			SourceID:   sourceID,
			TargetID:   targetID,
			Properties: r.Properties,
			CreatedAt:  now,
		})
	}
	return result, nil
}

// extractErrorObject reports the "error" field of a {"error": "..."} JSON
// object written to stderr, or "" if stderr does not contain one.
func extractErrorObject(stderr []byte) string {
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(stderr), &obj); err != nil {
		return ""
	}
	return obj.Error
}

// WriteScript materializes the embedded walker script to destPath (a
// scoped temp dir per §3.6) so it can be passed to the interpreter as a
// real file path.
func WriteScript(destPath string, writeFile func(path string, data []byte) error) error {
	return writeFile(destPath, walkASTScript)
}
