package lang

// Python has no LanguageSpec node-type vocabulary: it is never walked by
// the generic tree-sitter traversal, only dispatched by extension to the
// subprocess parser in internal/parse/python.
func init() {
	Register(&LanguageSpec{
		Language:       Python,
		FileExtensions: []string{".py"},
	})
}
