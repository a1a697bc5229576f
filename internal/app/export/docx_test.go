package export

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiu/stimulus/internal/app/models"
	"github.com/aiu/stimulus/internal/pkg/apperrors"
)

const testTemplateXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t></w:t></w:r></w:p><w:p><w:r><w:t>Заявка от {{owner_full_name}} ({{owner_email}})</w:t></w:r></w:p><w:p><w:r><w:t>Дата: {{today}}</w:t></w:r></w:p><w:p><w:r><w:t>Статья: {{title}}, дата публикации {{publication_date}}</w:t></w:r></w:p><w:p><w:r><w:t>Подписи: {{all_signatures}}</w:t></w:r></w:p><w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func writeTestTemplate(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "application_template.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"word/document.xml":            testTemplateXML,
		"word/_rels/document.xml.rels": testRelsXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func readDocumentXML(t *testing.T, content []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	for _, file := range zr.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatal("word/document.xml not found in output")
	return ""
}

func docxApplication(papers ...*models.Paper) *models.Application {
	owner := &models.User{
		ID:       uuid.New(),
		Email:    "ivanov@aiu.edu.kz",
		FullName: "Иванов Иван",
	}
	return &models.Application{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Owner:   owner,
		Papers:  papers,
	}
}

func TestDocxGeneratorMissingTemplate(t *testing.T) {
	gen := NewDocxGenerator(filepath.Join(t.TempDir(), "nope.docx"))
	_, err := gen.Generate(docxApplication(), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrTemplateNotFound)
}

func TestDocxGeneratorNoPapers(t *testing.T) {
	gen := NewDocxGenerator(writeTestTemplate(t))
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	content, err := gen.Generate(docxApplication(), now)
	require.NoError(t, err)

	doc := readDocumentXML(t, content)
	assert.Contains(t, doc, "Заявка от Иванов Иван (ivanov@aiu.edu.kz)")
	assert.Contains(t, doc, "Дата: 05 марта 2025 г.")
	assert.Contains(t, doc, "дата публикации ___")
	assert.Contains(t, doc, "Подписи: Иванов Иван")
	assert.NotContains(t, doc, `w:type="page"`)
	// Leading empty paragraph is stripped
	assert.NotContains(t, doc, "<w:t></w:t>")
}

func TestDocxGeneratorMultiplePapers(t *testing.T) {
	gen := NewDocxGenerator(writeTestTemplate(t))
	pubDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	app := docxApplication(
		&models.Paper{Title: "First & Second", PublicationDate: &pubDate},
		&models.Paper{Title: "Another Study"},
	)

	content, err := gen.Generate(app, time.Now())
	require.NoError(t, err)

	doc := readDocumentXML(t, content)
	assert.Contains(t, doc, "First &amp; Second")
	assert.Contains(t, doc, "дата публикации 15.01.2025")
	assert.Contains(t, doc, "Another Study")
	assert.Equal(t, 1, strings.Count(doc, `w:type="page"`))
	assert.Equal(t, 1, strings.Count(doc, "<w:sectPr"))
}

func TestDocxGeneratorSignatureOrder(t *testing.T) {
	gen := NewDocxGenerator(writeTestTemplate(t))

	app := docxApplication(&models.Paper{
		Title: "Joint Work",
		Coauthors: []*models.Coauthor{
			{FullName: "External Person"},
			{FullName: "  Петров Петр  ", IsAIUEmployee: true},
			{FullName: "   ", IsAIUEmployee: true},
		},
	})

	content, err := gen.Generate(app, time.Now())
	require.NoError(t, err)

	doc := readDocumentXML(t, content)
	assert.Contains(t, doc, "Подписи: Иванов Иван</w:t><w:br/><w:t>Петров Петр")
	assert.NotContains(t, doc, "External Person</w:t><w:br/>")
}

func TestStripLeadingEmptyParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t> </w:t></w:r></w:p><w:p/><w:p><w:r><w:t>Text</w:t></w:r></w:p>`
	assert.Equal(t, `<w:p><w:r><w:t>Text</w:t></w:r></w:p>`, stripLeadingEmptyParagraphs(body))

	keep := `<w:p><w:r><w:t>First</w:t></w:r></w:p><w:p/>`
	assert.Equal(t, keep, stripLeadingEmptyParagraphs(keep))
}
