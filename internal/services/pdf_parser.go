package services

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(filepath string) (string, error)
	ExtractTextWithMetaData(filepath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

var pageNumberRe = regexp.MustCompile(`(?i)^\s*(page\s*)?\d+\s*(/|\sof\s)\s*\d+\s*$`)

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	content, err := p.ExtractTextWithMetaData(filePath)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

func (p *pdfParserService) ExtractTextWithMetaData(filePath string) (*PDFContent, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPage := r.NumPage()
	pages := make([][]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		var lines []string
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, lines)
	}

	text := cleanPages(pages)
	if text == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}

// cleanPages strips repeated headers and footers (the same first or last
// line seen on at least two pages) plus trailing page-number lines, then
// collapses whitespace.
func cleanPages(pages [][]string) string {
	headerCounts := make(map[string]int)
	footerCounts := make(map[string]int)

	for _, lines := range pages {
		if len(lines) == 0 {
			continue
		}
		headerCounts[lines[0]]++
		footerCounts[lines[len(lines)-1]]++
	}

	header := mostFrequent(headerCounts)
	footer := mostFrequent(footerCounts)

	var cleaned []string
	for _, lines := range pages {
		if len(lines) > 0 && header != "" && headerCounts[header] >= 2 && lines[0] == header {
			lines = lines[1:]
		}
		if len(lines) > 0 && footer != "" && footerCounts[footer] >= 2 && lines[len(lines)-1] == footer {
			lines = lines[:len(lines)-1]
		}
		if len(lines) > 0 && pageNumberRe.MatchString(lines[len(lines)-1]) {
			lines = lines[:len(lines)-1]
		}

		cleaned = append(cleaned, strings.Join(lines, "\n"))
	}

	return normalizeWhitespace(strings.Join(cleaned, "\n"))
}

func mostFrequent(counts map[string]int) string {
	best := ""
	bestCount := 0
	for line, count := range counts {
		if count > bestCount || (count == bestCount && line < best) {
			best = line
			bestCount = count
		}
	}
	return best
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var out []string

	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
