package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".py", Python},
		{".go", Go},
		{".js", JavaScript},
		{".jsx", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".java", Java},
		{".cs", CSharp},
		{".c", C},
		{".h", C},
		{".cpp", CPP},
		{".hpp", CPP},
		{".cc", CPP},
		{".hh", CPP},
		{".sql", SQL},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", l)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".xyz"); spec != nil {
		t.Errorf("ForExtension(.xyz) should be nil, got %v", spec)
	}
}

func TestUsesTreeSitter(t *testing.T) {
	if Python.UsesTreeSitter() {
		t.Error("Python.UsesTreeSitter() = true, want false")
	}
	if !Go.UsesTreeSitter() {
		t.Error("Go.UsesTreeSitter() = false, want true")
	}
}

func TestDefaultExtensions(t *testing.T) {
	exts := DefaultExtensions()
	if len(exts) != 15 {
		t.Errorf("DefaultExtensions() has %d entries, want 15", len(exts))
	}
	for _, ext := range exts {
		if ForExtension(ext) == nil {
			t.Errorf("default extension %q has no registered LanguageSpec", ext)
		}
	}
}
