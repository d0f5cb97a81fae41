package utils

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/spark")
	tests := []struct {
		in, want string
	}{
		{"~/.config/spark/spark.db", filepath.Join("/home/spark", ".config/spark/spark.db")},
		{"~", "/home/spark"},
		{"/var/lib/spark.db", "/var/lib/spark.db"},
		{"relative/spark.db", "relative/spark.db"},
		{"~other/spark.db", "~other/spark.db"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
