package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
)

func TestMockStorage_Transcripts(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()

	tr := &dialogue.Transcript{SessionID: "s1", SourceID: "harbor", Lines: []dialogue.TranscriptLine{{Speaker: "Rin", Text: "Hi."}}}
	if err := m.SaveTranscript(ctx, tr); err != nil {
		t.Fatalf("Failed to save transcript: %v", err)
	}

	loaded, err := m.LoadTranscript(ctx, "s1")
	if err != nil {
		t.Fatalf("Failed to load transcript: %v", err)
	}
	if loaded == nil || loaded.SourceID != "harbor" || len(loaded.Lines) != 1 {
		t.Fatalf("Unexpected transcript: %+v", loaded)
	}

	if err := m.DeleteTranscript(ctx, "s1"); err != nil {
		t.Fatalf("Failed to delete transcript: %v", err)
	}
	loaded, err = m.LoadTranscript(ctx, "s1")
	if err != nil || loaded != nil {
		t.Errorf("Expected nil transcript after delete, got %+v, %v", loaded, err)
	}
}

func TestMockStorage_SaveError(t *testing.T) {
	m := NewMockStorage()
	boom := errors.New("boom")
	m.SetSaveError(boom)
	if err := m.SaveTranscript(context.Background(), &dialogue.Transcript{SessionID: "x"}); !errors.Is(err, boom) {
		t.Errorf("Expected configured error, got %v", err)
	}
}

func TestMockStorage_Sources(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()
	m.AddScript("harbor.json", []byte(`{"start":"a","knots":{"a":{"lines":[]}}}`))
	m.AddSource(&dialogue.Source{ID: "harbor", Script: "harbor.json", Events: []dialogue.EventBinding{{Name: "bell"}}})
	m.AddSource(&dialogue.Source{ID: "attic", Script: "missing.json"})

	ids, err := m.ListSources(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "attic" || ids[1] != "harbor" {
		t.Errorf("Expected sorted ids, got %v", ids)
	}

	src, err := m.GetSource(ctx, "harbor")
	if err != nil {
		t.Fatalf("Failed to get source: %v", err)
	}
	if len(src.Compiled) == 0 {
		t.Error("Expected compiled script to be attached")
	}
	src.Bind("bell", func() {})

	again, _ := m.GetSource(ctx, "harbor")
	if again.Events[0].Effect != nil {
		t.Error("Binding a returned source should not modify the stored one")
	}

	if _, err := m.GetSource(ctx, "attic"); err == nil {
		t.Error("Expected error for source with missing script")
	}
	if _, err := m.GetSource(ctx, "nowhere"); err == nil {
		t.Error("Expected error for unknown source")
	}
}
