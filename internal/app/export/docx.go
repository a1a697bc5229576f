package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
	"github.com/aiu/stimulus/internal/pkg/helpers"
)

const pageBreakParagraph = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

// DocxGenerator renders the compensation claim document from a Word template.
//
// The template uses {{placeholder}} markers. One copy of the template is
// rendered per paper and the copies are concatenated with a page break
// between them, so the template describes the claim for a single paper.
type DocxGenerator struct {
	templatePath string
}

func NewDocxGenerator(templatePath string) *DocxGenerator {
	return &DocxGenerator{templatePath: templatePath}
}

// Generate renders one claim document for the application. Applications
// without papers still produce one page with the paper fields blank.
func (g *DocxGenerator) Generate(app *models.Application, now time.Time) ([]byte, error) {
	if _, err := os.Stat(g.templatePath); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTemplateNotFound, g.templatePath)
	}

	papers := app.Papers
	if len(papers) == 0 {
		papers = []*models.Paper{nil}
	}

	todayStr := helpers.FormatRussianDate(now)

	var bodies []string
	var lastSectPr string
	for idx, paper := range papers {
		content, err := g.renderPage(app, paper, todayStr)
		if err != nil {
			return nil, err
		}

		_, body, sectPr, _, err := splitDocument(content)
		if err != nil {
			return nil, err
		}

		body = stripLeadingEmptyParagraphs(body)
		if idx > 0 {
			body = pageBreakParagraph + body
		}
		bodies = append(bodies, body)
		if sectPr != "" {
			lastSectPr = sectPr
		}
	}

	return g.assemble(bodies, lastSectPr)
}

// renderPage renders one copy of the template for a single paper and returns
// the resulting word/document.xml content.
func (g *DocxGenerator) renderPage(app *models.Application, paper *models.Paper, todayStr string) (string, error) {
	r, err := docx.ReadDocxFile(g.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to open docx template: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	for key, value := range pageContext(app, paper, todayStr) {
		content = strings.ReplaceAll(content, "{{"+key+"}}", escapeDocxText(value))
	}
	return content, nil
}

// assemble re-opens the template to reuse its zip structure and swaps in the
// merged document body. The last rendered page's section properties win.
func (g *DocxGenerator) assemble(bodies []string, sectPr string) ([]byte, error) {
	r, err := docx.ReadDocxFile(g.templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	prefix, _, _, suffix, err := splitDocument(doc.GetContent())
	if err != nil {
		return nil, err
	}

	doc.SetContent(prefix + strings.Join(bodies, "") + sectPr + suffix)

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize docx: %w", err)
	}
	return buf.Bytes(), nil
}

// pageContext builds the placeholder values for one template copy. Keys match
// the markers in templates/application_template.docx.
func pageContext(app *models.Application, paper *models.Paper, todayStr string) map[string]string {
	ownerFullName := app.Owner.FullName
	if ownerFullName == "" {
		ownerFullName = app.Owner.Email
	}

	ctx := map[string]string{
		"owner_full_name":   ownerFullName,
		"owner_position":    app.Owner.Position,
		"owner_subdivision": app.Owner.Subdivision,
		"owner_telephone":   app.Owner.Telephone,
		"owner_email":       app.Owner.Email,
		"today":             todayStr,

		"publication_date": "___",
		"title":            "",
		"journal":          "",
		"year":             "",
		"number":           "",
		"volume":           "",
		"pages":            "",
		"doi":              "",
		"quartile":         "",
		"percentile":       "",
		"indexation":       "",
		"coauthors":        "",
	}

	signers := []string{ownerFullName}
	if paper != nil {
		if paper.PublicationDate != nil {
			ctx["publication_date"] = paper.PublicationDate.Format("02.01.2006")
		}
		ctx["title"] = paper.Title
		ctx["journal"] = paper.JournalOrSource
		if paper.Year != nil && *paper.Year != 0 {
			ctx["year"] = strconv.Itoa(*paper.Year)
		}
		ctx["number"] = paper.Number
		if paper.Volume != nil && *paper.Volume != 0 {
			ctx["volume"] = strconv.Itoa(*paper.Volume)
		}
		ctx["pages"] = paper.Pages
		ctx["doi"] = paper.DOI
		if paper.Quartile != nil {
			ctx["quartile"] = string(*paper.Quartile)
		}
		if paper.Percentile != nil && *paper.Percentile != 0 {
			ctx["percentile"] = strconv.Itoa(*paper.Percentile)
		}
		ctx["indexation"] = string(paper.Indexation)
		ctx["coauthors"] = CoauthorsHuman(paper)

		// Only university employees sign the claim alongside the owner.
		for _, co := range paper.Coauthors {
			if co.IsAIUEmployee && strings.TrimSpace(co.FullName) != "" {
				signers = append(signers, strings.TrimSpace(co.FullName))
			}
		}
	}
	ctx["all_signatures"] = strings.Join(signers, "\n")

	return ctx
}

// splitDocument breaks word/document.xml into the part before the body, the
// body content without its trailing section properties, the section
// properties, and the part after the body.
func splitDocument(content string) (prefix, body, sectPr, suffix string, err error) {
	open := strings.Index(content, "<w:body")
	if open < 0 {
		return "", "", "", "", fmt.Errorf("malformed document: no body element")
	}
	openEnd := strings.Index(content[open:], ">")
	if openEnd < 0 {
		return "", "", "", "", fmt.Errorf("malformed document: unterminated body tag")
	}
	bodyStart := open + openEnd + 1

	bodyEnd := strings.LastIndex(content, "</w:body>")
	if bodyEnd < bodyStart {
		return "", "", "", "", fmt.Errorf("malformed document: body not closed")
	}

	prefix = content[:bodyStart]
	suffix = content[bodyEnd:]
	body = content[bodyStart:bodyEnd]

	if sectIdx := strings.LastIndex(body, "<w:sectPr"); sectIdx >= 0 {
		sectPr = body[sectIdx:]
		body = body[:sectIdx]
	}
	return prefix, body, sectPr, suffix, nil
}

// stripLeadingEmptyParagraphs drops paragraphs with no visible text from the
// start of a body fragment so merged pages do not begin with blank lines.
func stripLeadingEmptyParagraphs(body string) string {
	for {
		trimmed := strings.TrimLeft(body, " \t\r\n")
		if !strings.HasPrefix(trimmed, "<w:p ") && !strings.HasPrefix(trimmed, "<w:p>") && !strings.HasPrefix(trimmed, "<w:p/>") {
			return trimmed
		}

		var rest string
		tagEnd := strings.Index(trimmed, ">")
		if tagEnd < 0 {
			return trimmed
		}
		if trimmed[tagEnd-1] == '/' {
			// Self-closing paragraph, nothing to render
			rest = trimmed[tagEnd+1:]
		} else {
			end := strings.Index(trimmed, "</w:p>")
			if end < 0 {
				return trimmed
			}
			if paragraphHasText(trimmed[:end]) {
				return trimmed
			}
			rest = trimmed[end+len("</w:p>"):]
		}
		body = rest
	}
}

// paragraphHasText reports whether a paragraph fragment contains non-blank
// text inside any <w:t> element.
func paragraphHasText(paragraph string) bool {
	rest := paragraph
	for {
		start := strings.Index(rest, "<w:t")
		if start < 0 {
			return false
		}
		tagEnd := strings.Index(rest[start:], ">")
		if tagEnd < 0 {
			return false
		}
		if rest[start+tagEnd-1] == '/' {
			rest = rest[start+tagEnd+1:]
			continue
		}
		textStart := start + tagEnd + 1
		closeIdx := strings.Index(rest[textStart:], "</w:t>")
		if closeIdx < 0 {
			return false
		}
		if strings.TrimSpace(rest[textStart:textStart+closeIdx]) != "" {
			return true
		}
		rest = rest[textStart+closeIdx+len("</w:t>"):]
	}
}

// escapeDocxText XML-escapes a value and turns newlines into Word line breaks.
func escapeDocxText(value string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(strings.ReplaceAll(value, "\r\n", "\n"))); err != nil {
		return value
	}
	return strings.ReplaceAll(b.String(), "&#xA;", "</w:t><w:br/><w:t>")
}
