package models_test

import (
	"testing"

	"github.com/oselz/docqa-web-ui/internal/models"
)

func TestTranscriptAppendIsSnapshot(t *testing.T) {
	var empty models.Transcript

	one := empty.Append(models.Message{ID: "1", Text: "first"})
	two := one.Append(models.Message{ID: "2", Text: "second"})

	if empty.Len() != 0 {
		t.Errorf("empty.Len() = %d, want 0", empty.Len())
	}
	if one.Len() != 1 {
		t.Errorf("one.Len() = %d, want 1", one.Len())
	}
	if two.Len() != 2 {
		t.Errorf("two.Len() = %d, want 2", two.Len())
	}

	msgs := two.Messages()
	if msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Errorf("Messages() order = %q, %q; want insertion order", msgs[0].Text, msgs[1].Text)
	}

	// Editing the returned slice must not leak into the snapshot.
	msgs[0].Text = "mutated"
	if got := two.Messages()[0].Text; got != "first" {
		t.Errorf("Messages() after external edit = %q, want %q", got, "first")
	}
}

func TestTranscriptClear(t *testing.T) {
	tr := models.Transcript{}.Append(models.Message{ID: "1"})

	cleared := tr.Clear()
	if cleared.Len() != 0 {
		t.Errorf("Clear().Len() = %d, want 0", cleared.Len())
	}
	if tr.Len() != 1 {
		t.Errorf("original.Len() = %d, want 1", tr.Len())
	}
}

func TestTranscriptLast(t *testing.T) {
	var tr models.Transcript

	if _, ok := tr.Last(); ok {
		t.Error("Last() on empty transcript should report no message")
	}

	tr = tr.Append(models.Message{ID: "1"}).Append(models.Message{ID: "2"})
	last, ok := tr.Last()
	if !ok || last.ID != "2" {
		t.Errorf("Last() = %v, %v; want message 2", last, ok)
	}
}

func TestDedupCitations(t *testing.T) {
	tests := []struct {
		name string
		in   []models.Citation
		want []string
	}{
		{
			name: "nil input",
		},
		{
			name: "duplicates removed first-seen",
			in: []models.Citation{
				{Ref: "1", Text: "a.pdf"},
				{Ref: "1", Text: "a.pdf"},
				{Ref: "2", Text: "b.pdf"},
				{Ref: "1", Text: "a.pdf"},
			},
			want: []string{"a.pdf", "b.pdf"},
		},
		{
			name: "distinct refs untouched",
			in: []models.Citation{
				{Ref: "2", Text: "b.pdf"},
				{Ref: "1", Text: "a.pdf"},
			},
			want: []string{"b.pdf", "a.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.DedupCitations(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("DedupCitations() len = %d, want %d", len(got), len(tt.want))
			}
			for i, text := range tt.want {
				if got[i].Text != text {
					t.Errorf("DedupCitations()[%d].Text = %q, want %q", i, got[i].Text, text)
				}
			}
		})
	}
}
