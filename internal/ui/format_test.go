package ui

import (
	"strings"
	"testing"

	"github.com/strrl/claude-chats/pkg/models"
)

func TestFormatProjectLine(t *testing.T) {
	active := models.Project{Name: "~/app", SessionCount: 5}
	line := StripANSI(FormatProjectLine(active, 10, 120, false))
	if !strings.Contains(line, "~/app") || !strings.Contains(line, "5 chats") {
		t.Errorf("active line = %q", line)
	}

	empty := models.Project{Name: "~/empty", SessionCount: 0}
	line = StripANSI(FormatProjectLine(empty, 10, 120, false))
	if !strings.Contains(line, "0 chats") {
		t.Errorf("empty line = %q", line)
	}

	missing := models.Project{Name: "~/gone", SessionCount: 2, Missing: true}
	line = StripANSI(FormatProjectLine(missing, 10, 120, false))
	if !strings.Contains(line, "~/gone") || !strings.Contains(line, "2 chats") {
		t.Errorf("missing line = %q", line)
	}
}

func TestFormatProjectLine_CompactTruncates(t *testing.T) {
	long := models.Project{Name: "~/a-very-long-project-directory-name-indeed", SessionCount: 1}
	line := StripANSI(FormatProjectLine(long, len(long.Name), 40, true))
	if !strings.Contains(line, "~") {
		t.Errorf("compact line should truncate with ~: %q", line)
	}
	if strings.Contains(line, long.Name) {
		t.Errorf("compact line kept the full name: %q", line)
	}
}

func TestFormatSessionLine(t *testing.T) {
	s := models.Session{
		FilePath: "/p/abc.jsonl",
		Date:     "2024-03-05 09:30",
		Size:     45 * 1024,
		Message:  "fix the login bug",
	}
	line := StripANSI(FormatSessionLine(3, s, 2, "", 120, false))
	for _, want := range []string{" 3", "2024-03-05 09:30", "45K", "fix the login bug"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestFormatSessionLine_SummaryReplacesMessage(t *testing.T) {
	s := models.Session{Date: "2024-03-05 09:30", Size: 100, Message: "long original text"}
	line := StripANSI(FormatSessionLine(1, s, 1, "Login fix", 120, false))
	if !strings.Contains(line, "Login fix") {
		t.Errorf("line %q missing summary", line)
	}
	if strings.Contains(line, "long original text") {
		t.Errorf("line %q should show the summary instead of the message", line)
	}
}

func TestFormatSessionLine_Placeholder(t *testing.T) {
	s := models.Session{Date: "", Size: 10, Message: models.EmptyPlaceholder}
	line := StripANSI(FormatSessionLine(1, s, 1, "should be ignored", 120, false))
	if !strings.Contains(line, models.EmptyPlaceholder) {
		t.Errorf("line %q missing placeholder", line)
	}
	if strings.Contains(line, "should be ignored") {
		t.Errorf("placeholders never take summaries: %q", line)
	}
}

func TestParseLineIndex(t *testing.T) {
	s := models.Session{Date: "2024-03-05 09:30", Size: 2048, Message: "hello"}
	line := FormatSessionLine(7, s, 2, "", 120, false)
	idx, ok := ParseLineIndex(line)
	if !ok || idx != 7 {
		t.Errorf("ParseLineIndex = %d, %v", idx, ok)
	}

	if _, ok := ParseLineIndex(""); ok {
		t.Error("empty line should not parse")
	}
	if _, ok := ParseLineIndex("   no index here"); ok {
		t.Error("non-numeric line should not parse")
	}
}

func TestProjectNameFromLine(t *testing.T) {
	tests := []struct {
		project models.Project
		want    string
	}{
		{models.Project{Name: "~/app", SessionCount: 12}, "~/app"},
		{models.Project{Name: "~/empty", SessionCount: 0}, "~/empty"},
		{models.Project{Name: "~/gone", SessionCount: 3, Missing: true}, "~/gone"},
	}
	for _, tt := range tests {
		line := FormatProjectLine(tt.project, 10, 120, false)
		if got := ProjectNameFromLine(line); got != tt.want {
			t.Errorf("ProjectNameFromLine(%q) = %q, want %q", line, got, tt.want)
		}
	}
}

func TestProjectNameFromLine_NameWithDigits(t *testing.T) {
	p := models.Project{Name: "~/app2", SessionCount: 4}
	line := FormatProjectLine(p, 10, 120, false)
	if got := ProjectNameFromLine(line); got != "~/app2" {
		t.Errorf("ProjectNameFromLine = %q, want ~/app2", got)
	}
}
