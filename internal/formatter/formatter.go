// package formatter renders playlist export documents to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/renato-scuola/musicflow/internal/models"
	"github.com/renato-scuola/musicflow/internal/shared"
)

// ToJSON renders the canonical export document. This is the only format the
// import path accepts back.
func ToJSON(file *models.PlaylistFile) ([]byte, error) {
	data, err := shared.MarshalJSON(file, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist: %w", err)
	}
	return data, nil
}

// ReadPlaylistFile parses and validates an export document. Non-JSON
// content or a missing required field rejects the whole file.
func ReadPlaylistFile(data []byte) (*models.PlaylistFile, error) {
	var file models.PlaylistFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", shared.ErrInvalidImportFile, err)
	}

	if err := models.ValidateImportFile(&file); err != nil {
		return nil, err
	}

	return &file, nil
}

// ToCSV converts an export document to CSV with columns: ID, Title, Artist, Duration, VideoID, ChannelTitle, Thumbnail
func ToCSV(file *models.PlaylistFile) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Duration", "VideoID", "ChannelTitle", "Thumbnail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range file.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Duration,
			track.VideoID,
			track.ChannelTitle,
			track.Thumbnail,
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

// ToMarkdown converts an export document to Markdown
func ToMarkdown(file *models.PlaylistFile) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", file.Name))

	if file.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", file.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(file.Tracks)))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n\n", file.ExportedAt.Format("2006-01-02 15:04")))

	buf.WriteString("## Tracks\n\n")
	for i, track := range file.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, track.Duration))
	}

	return buf.Bytes(), nil
}

// ToText converts an export document to plain text
func ToText(file *models.PlaylistFile) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", file.Name))
	if file.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", file.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(file.Tracks)))

	for i, track := range file.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, track.Artist, track.Title, track.Duration))
	}

	return buf.Bytes(), nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a playlist name into a safe filename stem.
func Slug(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "playlist"
	}
	return slug
}

// WriteJSONExport writes the export document to a file.
//
// Defaults to {slug(name)}.json as the filename.
func WriteJSONExport(file *models.PlaylistFile, path string) (string, error) {
	if path == "" {
		path = Slug(file.Name) + ".json"
	}

	data, err := ToJSON(file)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

// WriteCSVExport writes the CSV rendering to a file.
//
// Defaults to {slug(name)}.csv as the filename.
func WriteCSVExport(file *models.PlaylistFile, path string) (string, error) {
	if path == "" {
		path = Slug(file.Name) + ".csv"
	}

	data, err := ToCSV(file)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// WriteMarkdownExport writes the Markdown rendering to a file.
//
// Defaults to {slug(name)}.md as the filename.
func WriteMarkdownExport(file *models.PlaylistFile, path string) (string, error) {
	if path == "" {
		path = Slug(file.Name) + ".md"
	}

	data, err := ToMarkdown(file)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return path, nil
}

// WriteTextExport writes the plain-text rendering to a file.
//
// Defaults to {slug(name)}.txt as the filename.
func WriteTextExport(file *models.PlaylistFile, path string) (string, error) {
	if path == "" {
		path = Slug(file.Name) + ".txt"
	}

	data, err := ToText(file)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// Write renders the export document in the named format and writes it to
// path (or a name-derived default when path is empty). Unknown formats fall
// back to JSON.
func Write(file *models.PlaylistFile, format, path string) (string, error) {
	switch format {
	case "csv":
		return WriteCSVExport(file, path)
	case "markdown", "md":
		return WriteMarkdownExport(file, path)
	case "txt", "text":
		return WriteTextExport(file, path)
	default:
		return WriteJSONExport(file, path)
	}
}
