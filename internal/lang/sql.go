package lang

func init() {
	Register(&LanguageSpec{
		Language:        SQL,
		FileExtensions:  []string{".sql"},
		ModuleNodeTypes: []string{"program"},
		ClassNodeTypes:  []string{"create_table", "create_view"},
		FieldNodeTypes:  []string{"column_definition"},
	})
}
