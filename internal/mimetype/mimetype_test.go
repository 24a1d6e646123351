package mimetype

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".pdf", "application/pdf"},
		{"pdf", "application/pdf"},
		{".PDF", "application/pdf"},
		{".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{".unknown", DefaultType},
		{"", DefaultType},
	}
	for _, tt := range tests {
		if got := Lookup(tt.ext); got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"abc-v1.0.pdf", "application/pdf"},
		{"report.final.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"noextension", DefaultType},
		{"", DefaultType},
	}
	for _, tt := range tests {
		if got := ForPath(tt.path); got != tt.want {
			t.Errorf("ForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
