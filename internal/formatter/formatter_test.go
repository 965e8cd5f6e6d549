package formatter

import (
	"strings"
	"testing"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
)

func strPtr(s string) *string { return &s }

func testPlaylist() *models.PlaylistDetail {
	return &models.PlaylistDetail{
		Playlist: models.Playlist{
			ID:          "pl1",
			Name:        "Bedtime",
			Description: strPtr("Calm videos before sleep"),
			Moment:      strPtr("bedtime"),
			IsPublic:    true,
			Tags:        []string{"calm", "music"},
		},
		Items: []models.PlaylistItem{
			{ID: "i1", VideoID: "abc", Title: "Twinkle Twinkle", ChannelName: strPtr("Super Simple Songs"), Position: 0},
			{ID: "i2", VideoID: "def", Title: "Goodnight Moon", Position: 1},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Position,Video ID,Title,Channel,Thumbnail") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "0,abc,Twinkle Twinkle,Super Simple Songs,") {
			t.Errorf("CSV missing first item, got: %s", output)
		}
		if !strings.Contains(output, "1,def,Goodnight Moon,,") {
			t.Errorf("CSV missing second item, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Bedtime",
			"**Description**: Calm videos before sleep",
			"**Tags**: calm, music",
			"**Videos**: 2",
			"**Visibility**: Public",
			"1. Twinkle Twinkle (Super Simple Songs) [abc]",
			"2. Goodnight Moon [def]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Bedtime") {
			t.Errorf("Text missing title, got: %s", output)
		}
		if !strings.Contains(output, "Videos: 2") {
			t.Errorf("Text missing count, got: %s", output)
		}
	})

	t.Run("Export", func(t *testing.T) {
		t.Run("Dispatches By Format", func(t *testing.T) {
			for _, format := range []string{"csv", "md", "markdown", "text", "txt", ""} {
				if _, err := Export(testPlaylist(), format); err != nil {
					t.Errorf("Export(%q) failed: %v", format, err)
				}
			}
		})

		t.Run("Unknown Format", func(t *testing.T) {
			if _, err := Export(testPlaylist(), "pdf"); err == nil {
				t.Error("expected error for unsupported format")
			}
		})
	})
}

func TestCheckIn(t *testing.T) {
	t.Run("First Name", func(t *testing.T) {
		tests := []struct {
			name string
			want string
		}{
			{"Ada Lovelace", "Ada"},
			{"  Grace  ", "Grace"},
			{"", "there"},
		}
		for _, tt := range tests {
			if got := (CheckIn{Name: tt.name}).FirstName(); got != tt.want {
				t.Errorf("FirstName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		}
	})

	t.Run("Body Includes Tip And Playlists", func(t *testing.T) {
		c := CheckIn{
			Name:         "Sam Parent",
			Playlists:    []models.Playlist{{Name: "Morning"}, {Name: "Car rides"}},
			ConcernLabel: "Sleep",
			Tip:          "Wind down without screens.",
		}

		body := CheckInText(c)
		for _, want := range []string{"Hey Sam,", "Tip for your concern: Sleep", "Wind down without screens.", "  - Morning", "  - Car rides", AppURL} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q:\n%s", want, body)
			}
		}

		if got := CheckInSubject(c); got != "Hey Sam, how's screen time going?" {
			t.Errorf("unexpected subject %q", got)
		}
	})

	t.Run("Body Omits Empty Sections", func(t *testing.T) {
		body := CheckInText(CheckIn{})
		if strings.Contains(body, "Tip for your concern") {
			t.Error("expected no tip section")
		}
		if strings.Contains(body, "Your recent playlists") {
			t.Error("expected no playlists section")
		}
	})
}

func TestDigest(t *testing.T) {
	d := models.FeedbackDigest{
		Total:        4,
		Rated:        2,
		Average:      "4.5",
		RatingCounts: [5]int{0, 0, 0, 1, 1},
		Comments:     []string{`"Love it" (video_ends)`},
	}

	if got := DigestSubject(d); got != "littleScreen: 4 feedback entries this week (avg 4.5)" {
		t.Errorf("unexpected subject %q", got)
	}

	body := DigestText(d)
	for _, want := range []string{"Total feedback entries: 4", "Average rating:         4.5/5", "4 star: 1 (25%)", "1 star: 0 (0%)", `"Love it" (video_ends)`} {
		if !strings.Contains(body, want) {
			t.Errorf("digest missing %q:\n%s", want, body)
		}
	}
}
