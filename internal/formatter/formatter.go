// package formatter renders playlists and notification e-mails as plain text, Markdown and CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
)

// AppURL is linked from outbound e-mails.
const AppURL = "https://littlescreen-v2.vercel.app"

// ExportToCSV converts a playlist to CSV with columns: Position, Video ID, Title, Channel, Thumbnail
func ExportToCSV(p *models.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Video ID", "Title", "Channel", "Thumbnail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range p.Items {
		record := []string{
			strconv.Itoa(item.Position),
			item.VideoID,
			item.Title,
			deref(item.ChannelName),
			deref(item.ThumbnailURL),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to a Markdown document
func ExportToMarkdown(p *models.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)

	if d := deref(p.Description); d != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", d)
	}
	if m := deref(p.Moment); m != "" {
		fmt.Fprintf(&buf, "**Moment**: %s\n", m)
	}
	if a := deref(p.AgeGroup); a != "" {
		fmt.Fprintf(&buf, "**Age group**: %s\n", a)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&buf, "**Tags**: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintf(&buf, "**Videos**: %d\n", len(p.Items))
	fmt.Fprintf(&buf, "**Visibility**: %s\n\n", visibility(p.IsPublic))

	buf.WriteString("## Videos\n\n")
	for i, item := range p.Items {
		channel := ""
		if c := deref(item.ChannelName); c != "" {
			channel = fmt.Sprintf(" (%s)", c)
		}
		fmt.Fprintf(&buf, "%d. %s%s [%s]\n", i+1, item.Title, channel, item.VideoID)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text
func ExportToText(p *models.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Name)
	if d := deref(p.Description); d != "" {
		fmt.Fprintf(&buf, "Description: %s\n", d)
	}
	fmt.Fprintf(&buf, "Videos: %d\n\n", len(p.Items))

	for i, item := range p.Items {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, item.Title)
	}

	return buf.Bytes(), nil
}

// Export renders p in the named format: csv, markdown (md) or text (txt).
func Export(p *models.PlaylistDetail, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "csv":
		return ExportToCSV(p)
	case "markdown", "md":
		return ExportToMarkdown(p)
	case "text", "txt", "":
		return ExportToText(p)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// CheckIn is the content of a parent's check-in e-mail.
type CheckIn struct {
	Name         string
	Playlists    []models.Playlist
	ConcernLabel string
	Tip          string
}

// FirstName returns the first word of the parent's name, or "there".
func (c CheckIn) FirstName() string {
	if fields := strings.Fields(c.Name); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

// CheckInSubject returns the check-in e-mail subject.
func CheckInSubject(c CheckIn) string {
	return fmt.Sprintf("Hey %s, how's screen time going?", c.FirstName())
}

// CheckInText renders the check-in e-mail body.
func CheckInText(c CheckIn) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hey %s,\n\n", c.FirstName())
	b.WriteString("How's screen time going this week? We hope the content you've been exploring has been helpful for your little ones.\n\n")

	if c.Tip != "" {
		fmt.Fprintf(&b, "Tip for your concern: %s\n%s\n\n", c.ConcernLabel, c.Tip)
	}

	if len(c.Playlists) > 0 {
		b.WriteString("Your recent playlists:\n")
		for _, p := range c.Playlists {
			fmt.Fprintf(&b, "  - %s\n", p.Name)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "How is littleScreen working for you? Rate us at %s\n\n", AppURL)
	b.WriteString("littleScreen · Parent-verified screen time, done right\n")
	return b.String()
}

// DigestSubject returns the admin digest subject line.
func DigestSubject(d models.FeedbackDigest) string {
	return fmt.Sprintf("littleScreen: %d feedback entries this week (avg %s)", d.Total, d.Average)
}

// DigestText renders the admin feedback digest body.
func DigestText(d models.FeedbackDigest) string {
	var b strings.Builder

	b.WriteString("littleScreen Weekly Feedback\n")
	b.WriteString("Past 7 days summary\n\n")

	fmt.Fprintf(&b, "Total feedback entries: %d\n", d.Total)
	fmt.Fprintf(&b, "With ratings:           %d\n", d.Rated)
	fmt.Fprintf(&b, "Average rating:         %s/5\n\n", d.Average)

	b.WriteString("Rating breakdown:\n")
	for i, count := range d.RatingCounts {
		pct := 0
		if d.Total > 0 {
			pct = (count*100 + d.Total/2) / d.Total
		}
		fmt.Fprintf(&b, "  %d star: %d (%d%%)\n", i+1, count, pct)
	}

	if len(d.Comments) > 0 {
		b.WriteString("\nRecent comments:\n")
		for _, c := range d.Comments {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}
	return b.String()
}

func visibility(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
