package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shuddl/quizlaw/models"

	"github.com/PuerkitoBio/goquery"
)

var (
	titleNumberPattern = regexp.MustCompile(`Section\s+([0-9.-]+)`)
	urlNumberPattern   = regexp.MustCompile(`(?i)section[-_]?([0-9.-]+)`)
)

// ExtractSectionLinks finds section page URLs on a division index page.
// Relative links are resolved against pageURL and duplicates are dropped.
func ExtractSectionLinks(html, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	links := doc.Find("div.section-list a.section-link")
	if links.Length() == 0 {
		links = doc.Find("table.sections-table td a")
	}

	var hrefs []string
	if links.Length() > 0 {
		links.Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok {
				hrefs = append(hrefs, href)
			}
		})
	} else {
		// Last resort: any anchor that mentions a section in its target.
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if strings.Contains(strings.ToLower(href), "section") {
				hrefs = append(hrefs, href)
			}
		})
	}

	seen := make(map[string]bool, len(hrefs))
	resolved := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		resolved = append(resolved, abs)
	}

	return resolved, nil
}

// ParseSectionPage extracts a legal section from a section page. The markup
// varies across the code site, so every field tries a chain of selectors
// before falling back to weaker heuristics.
func ParseSectionPage(html, pageURL string) (*models.LegalSection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	number := firstMatchText(doc, "span.section-number", "h1 .section-num", "div.section-header .number")
	if number == "" {
		if match := titleNumberPattern.FindStringSubmatch(doc.Find("title").Text()); match != nil {
			number = match[1]
		}
	}
	if number == "" {
		if parsed, err := url.Parse(pageURL); err == nil {
			if match := urlNumberPattern.FindStringSubmatch(parsed.Path); match != nil {
				number = match[1]
			}
		}
	}
	// Printed numbers often carry a trailing period, URL captures a trailing
	// extension dot.
	number = strings.Trim(number, ".-")
	if number == "" {
		return nil, fmt.Errorf("no section number found at %s", pageURL)
	}

	title := firstMatchText(doc, "h1.section-title", "div.section-header h2", "span.title")
	if title == "" {
		doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if text != "" && !strings.Contains(strings.ToLower(text), "section") {
				title = text
				return false
			}
			return true
		})
	}
	if title == "" {
		title = "Unknown Title"
	}

	var text string
	for _, selector := range []string{"div.section-content", "div.section-text", "div.content"} {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			text = textLines(sel)
			break
		}
	}
	if text == "" {
		for _, selector := range []string{"main", "article", "body"} {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 {
				continue
			}
			sel.Find("nav, header, footer, script, style").Remove()
			if text = textLines(sel); text != "" {
				break
			}
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no section text found at %s", pageURL)
	}

	division := firstMatchText(doc, "div.breadcrumb .division", "span.division-name")
	if division == "" {
		division = "Main Code"
	}

	return &models.LegalSection{
		Division:      division,
		Part:          firstMatchText(doc, "span.part-name"),
		Chapter:       firstMatchText(doc, "span.chapter-name"),
		SectionNumber: number,
		SectionTitle:  title,
		SectionText:   text,
		SourceURL:     pageURL,
	}, nil
}

// firstMatchText returns the text of the first selector that matches an
// element with nonempty text.
func firstMatchText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// textLines flattens an element into newline separated trimmed text chunks,
// one per text node.
func textLines(sel *goquery.Selection) string {
	var lines []string
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) == "#text" {
				if text := strings.TrimSpace(child.Text()); text != "" {
					lines = append(lines, text)
				}
				return
			}
			walk(child)
		})
	}
	walk(sel)
	return strings.Join(lines, "\n")
}
