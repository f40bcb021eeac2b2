package lang

func init() {
	Register(&LanguageSpec{
		Language:       CSharp,
		FileExtensions: []string{".cs"},
		FunctionNodeTypes: []string{
			"constructor_declaration",
			"method_declaration",
		},
		ClassNodeTypes: []string{
			"class_declaration",
			"struct_declaration",
			"enum_declaration",
			"interface_declaration",
		},
		FieldNodeTypes:  []string{"field_declaration", "property_declaration"},
		ModuleNodeTypes: []string{"compilation_unit", "namespace_declaration", "file_scoped_namespace_declaration"},
		CallNodeTypes:   []string{"invocation_expression"},
		ImportNodeTypes: []string{"using_directive"},
	})
}
