package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

func TestFlexibleID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `"abc-123"`, "abc-123"},
		{"integer", `42`, "42"},
		{"large integer", `12345678901`, "12345678901"},
		{"float", `1.5`, "1.5"},
		{"null", `null`, ""},
		{"padded string", `"  v1 "`, "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id FlexibleID
			if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if id.String() != tt.want {
				t.Errorf("got %q, want %q", id, tt.want)
			}
		})
	}

	t.Run("rejects objects", func(t *testing.T) {
		var id FlexibleID
		if err := json.Unmarshal([]byte(`{"a":1}`), &id); err == nil {
			t.Error("expected error for object id")
		}
	})
}

func TestPlaylistPatch(t *testing.T) {
	t.Run("absent and null are distinguished", func(t *testing.T) {
		var p PlaylistPatch
		if err := json.Unmarshal([]byte(`{"description": null}`), &p); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if !p.Description.Set || p.Description.Value != nil {
			t.Errorf("description should be set to null, got %+v", p.Description)
		}
		if p.Moment.Set {
			t.Error("moment should be absent")
		}
		if p.Empty() {
			t.Error("patch with description should not be empty")
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		var p PlaylistPatch
		if err := json.Unmarshal([]byte(`{}`), &p); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if !p.Empty() {
			t.Error("expected empty patch")
		}
	})

	t.Run("blank name is invalid", func(t *testing.T) {
		name := "   "
		err := PlaylistPatch{Name: &name}.Validate()
		var fe *shared.FieldError
		if !errors.As(err, &fe) || fe.Field != "name" {
			t.Fatalf("expected name field error, got %v", err)
		}
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Error("field error should wrap ErrInvalidInput")
		}
	})

	t.Run("normalize", func(t *testing.T) {
		var p PlaylistPatch
		if err := json.Unmarshal([]byte(`{"name":"  Bedtime Mix ","description":"  ","tags":["A"," b ","a"]}`), &p); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		p.Normalize()
		if *p.Name != "Bedtime Mix" {
			t.Errorf("name = %q", *p.Name)
		}
		if p.Description.Value != nil {
			t.Error("blank description should normalize to null")
		}
		if got := *p.Tags; len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("tags = %v, want [a b]", got)
		}
	})
}

func TestValidation(t *testing.T) {
	rating := 6
	zero := 0
	ok := 5

	tests := []struct {
		name  string
		input Validator
		field string
	}{
		{"playlist missing name", PlaylistInput{Name: " "}, "name"},
		{"playlist ok", PlaylistInput{Name: "Bedtime"}, ""},
		{"item missing video", ItemInput{Title: "Song"}, "video_id"},
		{"item missing title", ItemInput{VideoID: "v1"}, "title"},
		{"item ok", ItemInput{VideoID: "v1", Title: "Song"}, ""},
		{"feedback missing trigger", FeedbackInput{}, "trigger"},
		{"feedback rating too high", FeedbackInput{Trigger: TriggerVideoEnds, Rating: &rating}, "rating"},
		{"feedback rating zero", FeedbackInput{Trigger: TriggerVideoEnds, Rating: &zero}, "rating"},
		{"feedback ok", FeedbackInput{Trigger: TriggerVideoEnds, Rating: &ok}, ""},
		{"post missing body", PostInput{Title: "t"}, "body"},
		{"follow missing username", FollowInput{}, "username"},
		{"concerns blank", ConcernsInput{Concerns: []string{" "}}, "concerns"},
		{"concerns ok", ConcernsInput{Concerns: []string{"sleep"}}, ""},
		{"screening missing title", ScreeningRequest{}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var fe *shared.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Field != tt.field {
				t.Errorf("field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestResourceList(t *testing.T) {
	if got := string((PostInput{}).ResourceList()); got != "[]" {
		t.Errorf("missing resources = %s, want []", got)
	}
	if got := string((PostInput{Resources: json.RawMessage(`{"a":1}`)}).ResourceList()); got != "[]" {
		t.Errorf("object resources = %s, want []", got)
	}
	if got := string((PostInput{Resources: json.RawMessage(`["x"]`)}).ResourceList()); got != `["x"]` {
		t.Errorf("array resources = %s", got)
	}
}

func TestNewVideo(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want float64
	}{
		{`{"parentRating": 4.5}`, 4.5},
		{`{"parentRating": "3.25"}`, 3.25},
		{`{"parentRating": "high"}`, 0},
		{`{"parentRating": "NaN"}`, 0},
		{`{"parentRating": null}`, 0},
		{`{"title": "no rating"}`, 0},
		{`"junk"`, 0},
		{`null`, 0},
	} {
		v := NewVideo(json.RawMessage(tc.raw))
		if v.ParentRating != tc.want {
			t.Errorf("NewVideo(%s).ParentRating = %v, want %v", tc.raw, v.ParentRating, tc.want)
		}
		out, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", tc.raw, err)
		}
		var want bytes.Buffer
		json.Compact(&want, []byte(tc.raw))
		if string(out) != want.String() {
			t.Errorf("marshal = %s, want %s", out, want.String())
		}
	}

	if out, _ := json.Marshal(Video{}); string(out) != "null" {
		t.Errorf("empty video marshals to %s", out)
	}
}
