package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("STAFFMATCH_TEST_SECRET", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		wantErr string
	}{
		{
			name:   "file wins over env and value",
			src:    Source{File: keyFile, Env: "STAFFMATCH_TEST_SECRET", Value: "inline"},
			expect: "from-file",
		},
		{
			name:   "env wins over value",
			src:    Source{Env: "STAFFMATCH_TEST_SECRET", Value: "inline"},
			expect: "from-env",
		},
		{
			name:   "unset env falls back to value",
			src:    Source{Env: "STAFFMATCH_TEST_UNSET", Value: " inline "},
			expect: "inline",
		},
		{
			name:    "missing file",
			src:     Source{Name: "gemini api key", File: filepath.Join(dir, "absent")},
			wantErr: "reading gemini api key from file",
		},
		{
			name:    "empty file",
			src:     Source{File: emptyFile, Value: "inline"},
			wantErr: "is empty",
		},
		{
			name:    "nothing configured",
			src:     Source{},
			wantErr: "secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
