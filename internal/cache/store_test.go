package cache

import (
	"path/filepath"
	"testing"

	"github.com/sanjitmathur/ExamForge/internal/api"
	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func sampleBank() []domain.ExtractedQuestion {
	return []domain.ExtractedQuestion{
		{ID: 1, PaperID: 1, QuestionText: "Solve x^2 = 4", QuestionType: "short_answer",
			Difficulty: "easy", Board: "CBSE", GradeLevel: "Grade 10", Subject: "Mathematics",
			Topic: "Algebra", Marks: 2, OrderInPaper: 1},
		{ID: 2, PaperID: 1, QuestionText: "Pick the prime", QuestionType: "mcq",
			Difficulty: "easy", Board: "CBSE", GradeLevel: "Grade 10", Subject: "Mathematics",
			Topic: "Number Theory", Marks: 1, OrderInPaper: 2,
			OptionsJSON: `["4","7","9","15"]`, CorrectOption: "7"},
		{ID: 3, PaperID: 2, QuestionText: "State Ohm's law", QuestionType: "short_answer",
			Difficulty: "medium", Board: "ICSE", GradeLevel: "Grade 9", Subject: "Physics",
			Topic: "Electricity", Marks: 3, OrderInPaper: 1},
	}
}

func TestReplaceAndListRoundTrip(t *testing.T) {
	s := openStore(t)
	if err := s.ReplaceQuestions(sampleBank()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	all, err := s.ListQuestions(api.QuestionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d questions, want 3", len(all))
	}
	// Backend ordering: by paper, then position within the paper.
	if all[0].ID != 1 || all[1].ID != 2 || all[2].ID != 3 {
		t.Fatalf("order = %d,%d,%d", all[0].ID, all[1].ID, all[2].ID)
	}
	if all[1].OptionsJSON != `["4","7","9","15"]` || all[1].CorrectOption != "7" {
		t.Fatalf("mcq fields lost: %+v", all[1])
	}

	synced, err := s.LastSyncedAt()
	if err != nil {
		t.Fatalf("last synced: %v", err)
	}
	if synced.IsZero() {
		t.Fatal("sync time not recorded")
	}
}

func TestListQuestionsFilters(t *testing.T) {
	s := openStore(t)
	if err := s.ReplaceQuestions(sampleBank()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	maths, err := s.ListQuestions(api.QuestionFilter{Subject: "Mathematics"})
	if err != nil {
		t.Fatalf("filter subject: %v", err)
	}
	if len(maths) != 2 {
		t.Fatalf("maths questions = %d, want 2", len(maths))
	}

	combined, err := s.ListQuestions(api.QuestionFilter{Board: "CBSE", QuestionType: "mcq"})
	if err != nil {
		t.Fatalf("combined filter: %v", err)
	}
	if len(combined) != 1 || combined[0].ID != 2 {
		t.Fatalf("combined = %+v", combined)
	}

	none, err := s.ListQuestions(api.QuestionFilter{Topic: "Trigonometry"})
	if err != nil {
		t.Fatalf("empty filter: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("unexpected matches: %+v", none)
	}
}

func TestReplaceDropsStaleRows(t *testing.T) {
	s := openStore(t)
	if err := s.ReplaceQuestions(sampleBank()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// The server-side bank shrank (a paper was deleted); resync mirrors that.
	if err := s.ReplaceQuestions(sampleBank()[:1]); err != nil {
		t.Fatalf("resync: %v", err)
	}
	all, err := s.ListQuestions(api.QuestionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].ID != 1 {
		t.Fatalf("stale rows survived: %+v", all)
	}
}

func TestStatsAndTopics(t *testing.T) {
	s := openStore(t)
	if err := s.ReplaceQuestions(sampleBank()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalQuestions != 3 {
		t.Fatalf("total = %d", stats.TotalQuestions)
	}
	if stats.ByType["short_answer"] != 2 || stats.ByType["mcq"] != 1 {
		t.Fatalf("byType = %v", stats.ByType)
	}
	if stats.ByDifficulty["easy"] != 2 || stats.ByDifficulty["medium"] != 1 {
		t.Fatalf("byDifficulty = %v", stats.ByDifficulty)
	}
	if stats.ByBoard["CBSE"] != 2 || stats.ByBoard["ICSE"] != 1 {
		t.Fatalf("byBoard = %v", stats.ByBoard)
	}

	topics, err := s.Topics()
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	want := []string{"Algebra", "Electricity", "Number Theory"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v", topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("topics = %v, want %v", topics, want)
		}
	}
}

func TestEmptyStore(t *testing.T) {
	s := openStore(t)
	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalQuestions != 0 {
		t.Fatalf("total = %d", stats.TotalQuestions)
	}
	synced, err := s.LastSyncedAt()
	if err != nil {
		t.Fatalf("last synced: %v", err)
	}
	if !synced.IsZero() {
		t.Fatalf("synced = %v, want zero", synced)
	}
}
