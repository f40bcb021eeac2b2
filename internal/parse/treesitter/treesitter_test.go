package treesitter

import (
	"testing"
	"time"

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

func TestParseGoFunctionsAndMethods(t *testing.T) {
	src := `package sample

import "fmt"

type Greeter struct {
	Name string
}

func (g *Greeter) Greet() string {
	return fmt.Sprintf("hi %s", g.Name)
}

func NewGreeter(name string) *Greeter {
	return &Greeter{Name: name}
}
`
	result, err := Parse("/repo/sample.go", lang.Go, []byte(src), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counts := kindCounts(result)
	if counts[model.KindGoStruct] != 1 {
		t.Errorf("KindGoStruct count = %d, want 1", counts[model.KindGoStruct])
	}
	if counts[model.KindGoMethod] != 1 {
		t.Errorf("KindGoMethod count = %d, want 1", counts[model.KindGoMethod])
	}
	if counts[model.KindGoFunction] != 1 {
		t.Errorf("KindGoFunction count = %d, want 1", counts[model.KindGoFunction])
	}
	if counts[model.KindField] != 1 {
		t.Errorf("KindField count = %d, want 1", counts[model.KindField])
	}

	var method *model.Node
	for _, n := range result.Nodes {
		if n.Kind == model.KindGoMethod {
			method = n
		}
	}
	if method == nil {
		t.Fatal("no GoMethod node found")
	}
	if method.Name != "Greet" {
		t.Errorf("method.Name = %q, want Greet", method.Name)
	}
}

func TestParseCFunctionsAndIncludes(t *testing.T) {
	src := `#include <stdio.h>

int add(int a, int b) {
    return a + b;
}
`
	result, err := Parse("/repo/main.c", lang.C, []byte(src), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counts := kindCounts(result)
	if counts[model.KindIncludeDirective] != 1 {
		t.Errorf("KindIncludeDirective count = %d, want 1", counts[model.KindIncludeDirective])
	}
	if counts[model.KindCFunction] != 1 {
		t.Errorf("KindCFunction count = %d, want 1", counts[model.KindCFunction])
	}
}

func TestParseCppClassWithMethod(t *testing.T) {
	src := `class Widget {
public:
    int value();
};

int Widget::value() {
    return 1;
}
`
	result, err := Parse("/repo/widget.cpp", lang.CPP, []byte(src), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counts := kindCounts(result)
	if counts[model.KindCppClass] != 1 {
		t.Errorf("KindCppClass count = %d, want 1", counts[model.KindCppClass])
	}
}

func TestParseJavaClassWithPackage(t *testing.T) {
	src := `package com.example;

public class Service {
    public String run() {
        return "ok";
    }
}
`
	result, err := Parse("/repo/Service.java", lang.Java, []byte(src), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counts := kindCounts(result)
	if counts[model.KindPackageDeclaration] != 1 {
		t.Errorf("KindPackageDeclaration count = %d, want 1", counts[model.KindPackageDeclaration])
	}
	if counts[model.KindJavaClass] != 1 {
		t.Errorf("KindJavaClass count = %d, want 1", counts[model.KindJavaClass])
	}
	if counts[model.KindJavaMethod] != 1 {
		t.Errorf("KindJavaMethod count = %d, want 1", counts[model.KindJavaMethod])
	}
}

func TestParseCSharpNamespaceAndClass(t *testing.T) {
	src := `namespace Example
{
    public class Service
    {
        public string Run()
        {
            return "ok";
        }
    }
}
`
	result, err := Parse("/repo/Service.cs", lang.CSharp, []byte(src), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counts := kindCounts(result)
	if counts[model.KindNamespaceDeclaration] != 1 {
		t.Errorf("KindNamespaceDeclaration count = %d, want 1", counts[model.KindNamespaceDeclaration])
	}
	if counts[model.KindCSharpClass] != 1 {
		t.Errorf("KindCSharpClass count = %d, want 1", counts[model.KindCSharpClass])
	}
	if counts[model.KindCSharpMethod] != 1 {
		t.Errorf("KindCSharpMethod count = %d, want 1", counts[model.KindCSharpMethod])
	}
}

func TestParseSQLCreateTable(t *testing.T) {
	src := `CREATE TABLE users (
    id INTEGER,
    name TEXT
);
`
	result, err := Parse("/repo/schema.sql", lang.SQL, []byte(src), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counts := kindCounts(result)
	if counts[model.KindSQLTable] != 1 {
		t.Errorf("KindSQLTable count = %d, want 1", counts[model.KindSQLTable])
	}
}
