package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nhle/taskdesk/internal/model"
)

func sampleDoc() Document {
	moved := time.Date(2025, 1, 10, 6, 0, 0, 0, time.UTC)
	return Document{
		OwnerID:    "owner-1",
		ExportedAt: moved,
		Stats:      model.ArchiveStats{TotalArchived: 1, TotalIncomplete: 1, AvgDaysPastDue: 9, MaxDaysPastDue: 9, OldestMovedAt: moved, LatestMovedAt: moved},
		Tasks: []model.ArchivedTask{{
			ID:             "a1",
			OwnerID:        "owner-1",
			OriginalTaskID: "t1",
			Title:          "file taxes",
			DueDate:        "2025-01-01",
			Priority:       model.PriorityHigh,
			ProjectTags:    []string{"p1"},
			ProjectNames:   []string{"Home"},
			MovedAt:        moved,
			DaysPastDue:    9,
		}},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"yaml": FormatYAML, "YML": FormatYAML, "": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); !errors.Is(err, model.ErrInvalidArgs) {
		t.Errorf("ParseFormat(csv) err = %v", err)
	}
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sampleDoc()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"archived_tasks:", "title: file taxes", "days_past_due: 9", "- Home", "total_archived: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}

	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid yaml: %v", err)
	}
	if back["owner_id"] != "owner-1" {
		t.Errorf("owner_id = %v", back["owner_id"])
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleDoc()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var back struct {
		Tasks []map[string]any `json:"archived_tasks"`
		Stats map[string]any   `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if len(back.Tasks) != 1 || back.Tasks[0]["original_task_id"] != "t1" {
		t.Errorf("tasks = %v", back.Tasks)
	}
	if back.Stats["max_days_past_due"] != float64(9) {
		t.Errorf("stats = %v", back.Stats)
	}
}

func TestWriteEmptyArchive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, Document{OwnerID: "owner-1"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `"archived_tasks": []`) {
		t.Errorf("empty archive not written as an empty list:\n%s", buf.String())
	}
}
