package lang

func init() {
	Register(&LanguageSpec{
		Language:       CPP,
		FileExtensions: []string{".cpp", ".hpp", ".cc", ".hh"},
		FunctionNodeTypes: []string{
			"function_definition",
		},
		ClassNodeTypes: []string{
			"class_specifier",
			"struct_specifier",
			"union_specifier",
			"enum_specifier",
		},
		FieldNodeTypes:    []string{"field_declaration"},
		ModuleNodeTypes:   []string{"translation_unit", "namespace_definition"},
		CallNodeTypes:     []string{"call_expression"},
		ImportNodeTypes:   []string{"preproc_include"},
		PackageIndicators: []string{"CMakeLists.txt", "Makefile", "conanfile.txt"},
	})
}
