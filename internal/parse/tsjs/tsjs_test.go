package tsjs

import (
	"testing"
	"time"

	"github.com/codegraph/codegraph/internal/discover"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/model"
)

func kindCounts(result *model.SingleFileParseResult) map[model.Kind]int {
	counts := make(map[model.Kind]int)
	for _, n := range result.Nodes {
		counts[n.Kind]++
	}
	return counts
}

func TestParseAllFunctionAndClass(t *testing.T) {
	sources := map[string][]byte{
		"a.ts": []byte(`import { helper } from "./b";

export function run(x: number): number {
	if (x > 0) {
		return helper(x);
	}
	return 0;
}

export class Widget {
	private count: number;

	increment(): void {
		this.count += 1;
	}
}
`),
	}
	files := []discover.FileInfo{{Path: "a.ts", RelPath: "a.ts", Language: lang.TypeScript}}

	results, project, err := ParseAll(files, func(path string) ([]byte, error) {
		return sources[path], nil
	}, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	counts := kindCounts(results[0])
	if counts[model.KindImport] != 1 {
		t.Errorf("KindImport = %d, want 1", counts[model.KindImport])
	}
	if counts[model.KindFunction] != 1 {
		t.Errorf("KindFunction = %d, want 1", counts[model.KindFunction])
	}
	if counts[model.KindClass] != 1 {
		t.Errorf("KindClass = %d, want 1", counts[model.KindClass])
	}
	if counts[model.KindMethod] != 1 {
		t.Errorf("KindMethod = %d, want 1", counts[model.KindMethod])
	}

	symbols, ok := project.Files["a.ts"]
	if !ok {
		t.Fatal("project has no symbols for a.ts")
	}
	if len(symbols.Exports) != 2 {
		t.Errorf("len(Exports) = %d, want 2 (run, Widget)", len(symbols.Exports))
	}
}

func TestParseJSXComponent(t *testing.T) {
	sources := map[string][]byte{
		"app.tsx": []byte(`function Child(props: { label: string }) {
	return <div className="p-2 text-sm">{props.label}</div>;
}

export function Parent() {
	return <Child label="hi" />;
}
`),
	}
	files := []discover.FileInfo{{Path: "app.tsx", RelPath: "app.tsx", Language: lang.TSX}}

	results, _, err := ParseAll(files, func(path string) ([]byte, error) {
		return sources[path], nil
	}, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	counts := kindCounts(results[0])
	if counts[model.KindComponent] != 2 {
		t.Errorf("KindComponent = %d, want 2", counts[model.KindComponent])
	}
	if counts[model.KindJSXElement] == 0 {
		t.Error("expected at least one JSXElement")
	}
	if counts[model.KindTailwindClass] != 2 {
		t.Errorf("KindTailwindClass = %d, want 2 (p-2, text-sm)", counts[model.KindTailwindClass])
	}
}

func TestCyclomaticComplexityCountsBranches(t *testing.T) {
	sources := map[string][]byte{
		"c.ts": []byte(`export function classify(x: number): string {
	if (x > 0 && x < 10) {
		return "small";
	} else if (x >= 10) {
		return "big";
	}
	return "non-positive";
}
`),
	}
	files := []discover.FileInfo{{Path: "c.ts", RelPath: "c.ts", Language: lang.TypeScript}}

	results, _, err := ParseAll(files, func(path string) ([]byte, error) {
		return sources[path], nil
	}, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	var fn *model.Node
	for _, n := range results[0].Nodes {
		if n.Kind == model.KindFunction {
			fn = n
		}
	}
	if fn == nil {
		t.Fatal("no Function node found")
	}
	complexity, _ := fn.Properties["cyclomaticComplexity"].(int)
	if complexity < 3 {
		t.Errorf("cyclomaticComplexity = %d, want >= 3", complexity)
	}
}
