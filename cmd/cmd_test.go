package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/matching"
	"github.com/spigell/staffmatch/internal/ranking"
	"github.com/spigell/staffmatch/internal/store"
)

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	src := filepath.Join(dir, "cvs.yaml")
	if err := os.WriteFile(src, []byte(`
- Name: Ada
  Skills: [Java, Spring]
  Experience:
    - Role: Backend Developer
- Name: Bob
  Skills: Python
`), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst, err := store.Open(ctx, store.Config{Driver: store.DriverSQLite, Path: filepath.Join(dir, "candidates.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer dst.Close(ctx)

	count, err := importFile(ctx, src, dst, zap.NewNop())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 imported, got %d", count)
	}

	corpus, err := candidate.Load(ctx, dst)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if corpus.Len() != 2 || corpus.At(0).Name != "Ada" || corpus.At(1).SkillText() != "Python" {
		t.Fatalf("unexpected corpus: %+v, %+v", corpus.At(0), corpus.At(1))
	}
}

func TestImportFileRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	src := filepath.Join(dir, "cvs.json")
	if err := os.WriteFile(src, []byte(`[{"Name": "Ada"}, {"Name": "Bob", "Experience": "ten years"}]`), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst, err := store.NewFile(filepath.Join(dir, "store.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	_, err = importFile(ctx, src, dst, zap.NewNop())
	var fieldErr *candidate.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Index != 1 || fieldErr.Field != "Experience" {
		t.Fatalf("expected field error for record 1, got %v", err)
	}

	records, err := dst.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected nothing imported, got %d records", len(records))
	}
}

func TestHandleAction(t *testing.T) {
	result := &matching.Result{
		RunID:   "run-1",
		Outcome: matching.OutcomeShortlisted,
		Shortlist: &ranking.Shortlist{Entries: []ranking.Entry{
			{CandidateID: "c1", Score: 0.5, Rank: 1},
		}},
	}

	log := zap.NewNop()

	if err := handleAction(PromptShortlist, log, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := handleAction(PromptAdvisory, log, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := handleAction(PromptExit, log, result); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if err := handleAction("unknown", log, result); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	result := &matching.Result{
		RunID:     "run-1",
		Outcome:   matching.OutcomeShortlisted,
		Shortlist: &ranking.Shortlist{Entries: []ranking.Entry{{CandidateID: "c1", Score: 0.5, Rank: 1}}},
	}

	name, err := dumpToTmpFile(result)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("dump is not json: %v", err)
	}
	if decoded["run_id"] != "run-1" || decoded["outcome"] != "shortlisted" {
		t.Fatalf("unexpected dump: %s", data)
	}
}
