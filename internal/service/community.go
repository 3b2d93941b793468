package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mentecalma/server/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

// CommunityPage is a static content page served to the community section
// of the app (announcements, support resources, group guidelines).
type CommunityPage struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	LastUpdated string `json:"last_updated"`
}

type CommunityService struct {
	contentDir string
	pages      map[string]*CommunityPage
}

func NewCommunityService(contentDir string) *CommunityService {
	return &CommunityService{
		contentDir: filepath.Join(contentDir, "community"),
		pages:      make(map[string]*CommunityPage),
	}
}

func (s *CommunityService) LoadPages() error {
	files, err := os.ReadDir(s.contentDir)
	if err != nil {
		if os.IsNotExist(err) {
			// Create directory if it doesn't exist
			err = os.MkdirAll(s.contentDir, 0755)
			if err != nil {
				return fmt.Errorf("failed to create community directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to read community directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		slug := strings.TrimSuffix(file.Name(), ".md")
		page, err := s.loadPage(slug)
		if err != nil {
			return fmt.Errorf("failed to load page %s: %w", slug, err)
		}

		s.pages[slug] = page
	}

	return nil
}

func (s *CommunityService) loadPage(slug string) (*CommunityPage, error) {
	filePath := filepath.Join(s.contentDir, slug+".md")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	parser := markdown.NewParser()
	html, meta, err := parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		// Generate title from slug
		title = cases.Title(language.BrazilianPortuguese).String(strings.ReplaceAll(slug, "-", " "))
	}

	summary, _ := meta["summary"].(string)

	// Get lastUpdated from frontmatter first, fallback to file modification time
	var lastUpdated string
	dateValue, ok := meta["lastUpdated"]
	if ok {
		lastUpdated = parseContentDate(dateValue)
	}

	if lastUpdated == "" {
		lastUpdated = info.ModTime().Format("2006-01-02")
	}

	return &CommunityPage{
		Title:       title,
		Slug:        slug,
		Summary:     summary,
		Content:     string(html),
		LastUpdated: lastUpdated,
	}, nil
}

// Pages returns all community pages sorted by slug.
func (s *CommunityService) Pages() ([]*CommunityPage, error) {
	// Reload to get latest content in development
	err := s.LoadPages()
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(s.pages))
	for slug := range s.pages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	pages := make([]*CommunityPage, 0, len(slugs))
	for _, slug := range slugs {
		pages = append(pages, s.pages[slug])
	}
	return pages, nil
}

func (s *CommunityService) Page(slug string) (*CommunityPage, error) {
	// Reload to get latest content in development
	err := s.LoadPages()
	if err != nil {
		return nil, err
	}

	page, ok := s.pages[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, slug)
	}

	return page, nil
}

// parseContentDate tries a few date formats and normalizes to ISO.
func parseContentDate(value interface{}) string {
	var dateStr string

	switch v := value.(type) {
	case string:
		dateStr = v
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return ""
	}

	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"02.01.2006",
		time.RFC3339,
	}

	for _, format := range formats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			return t.Format("2006-01-02")
		}
	}

	// Return as-is if parsing fails
	return dateStr
}
