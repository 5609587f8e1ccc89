package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"defaults", "", ""},
		{"json debug", "debug", "json"},
		{"console warn", "warn", "console"},
		{"error level", "error", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.format)
			if err != nil {
				t.Fatalf("New(%q, %q) = %v", tt.level, tt.format, err)
			}
			if l == nil {
				t.Fatal("New returned nil logger")
			}
			l.Sync()
		})
	}
}
