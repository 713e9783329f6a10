package main

import (
	"testing"

	"EduChat/internal/backend"
)

func TestFileKind(t *testing.T) {
	cases := []struct {
		path string
		kind backend.FileKind
		ok   bool
	}{
		{"notes.pdf", backend.FileDocument, true},
		{"dir/Homework.PDF", backend.FileDocument, true},
		{"sketch.png", backend.FileImage, true},
		{"photo.JPEG", backend.FileImage, true},
		{"report.docx", "", false},
		{"noext", "", false},
	}

	for _, tc := range cases {
		kind, err := fileKind(tc.path)
		if tc.ok && (err != nil || kind != tc.kind) {
			t.Fatalf("fileKind(%q) = %q, %v; want %q", tc.path, kind, err, tc.kind)
		}
		if !tc.ok && err == nil {
			t.Fatalf("fileKind(%q) should be rejected", tc.path)
		}
	}
}
