package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aiu/stimulus/internal/app/models"
)

func openWorkbook(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func exportUser() *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       "ivanov@aiu.edu.kz",
		FullName:    "Иванов Иван",
		Position:    "Профессор",
		Subdivision: "Кафедра физики",
		Telephone:   "+7 701 000 00 00",
	}
}

func exportApplication(owner *models.User, papers ...*models.Paper) *models.Application {
	faculty := models.FacultyITEngineering
	return &models.Application{
		ID:         uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000001"),
		OwnerID:    owner.ID,
		Status:     models.StatusSubmitted,
		Faculty:    &faculty,
		ReportYear: 2025,
		CreatedAt:  time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		Owner:      owner,
		Papers:     papers,
	}
}

func TestBuildApplicationsWorkbookHeader(t *testing.T) {
	content, err := BuildApplicationsWorkbook(nil)
	require.NoError(t, err)

	f := openWorkbook(t, content)
	assert.Equal(t, []string{"Applications"}, f.GetSheetList())

	for i, column := range columnsConfig {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		got, err := f.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, column.title, got)
	}
}

func TestBuildApplicationsWorkbookNoPapers(t *testing.T) {
	app := exportApplication(exportUser())
	content, err := BuildApplicationsWorkbook([]*models.Application{app})
	require.NoError(t, err)

	f := openWorkbook(t, content)
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "a1b2c3d4", row[0])
	assert.Equal(t, "2025", row[1])
	assert.Equal(t, "Отправлено", row[2])
	assert.Equal(t, "Высшая школа информационных технологий и инженерии", row[3])
	assert.Equal(t, "Иванов Иван", row[4])
	assert.Equal(t, "ivanov@aiu.edu.kz", row[5])

	// Paper cells stay blank
	for i := len(row) - 1; i >= 11; i-- {
		assert.Empty(t, row[i])
	}
}

func TestBuildApplicationsWorkbookPaperRows(t *testing.T) {
	quartile := models.QuartileQ2
	percentile := 87
	pubDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	year := 2025
	volume := 12
	file := "papers/7d4f-article.pdf"

	wosPaper := &models.Paper{
		ID:              uuid.New(),
		Title:           "Deep learning in plasma physics",
		JournalOrSource: "Nature Physics",
		Indexation:      models.IndexationWoS,
		Quartile:        &quartile,
		DOI:             "10.1000/xyz",
		PublicationDate: &pubDate,
		Year:            &year,
		Volume:          &volume,
		Number:          "3",
		Pages:           "45-60",
		FileUpload:      &file,
		Coauthors: []*models.Coauthor{
			{FullName: "Петров Петр", IsAIUEmployee: true, Email: "petrov@aiu.edu.kz", Position: "Доцент"},
			{FullName: "External Person"},
		},
	}
	scopusPaper := &models.Paper{
		ID:         uuid.New(),
		Title:      "Scopus-indexed study",
		Indexation: models.IndexationScopus,
		Percentile: &percentile,
	}

	app := exportApplication(exportUser(), wosPaper, scopusPaper)
	content, err := BuildApplicationsWorkbook([]*models.Application{app})
	require.NoError(t, err)

	f := openWorkbook(t, content)
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first, second := rows[1], rows[2]

	// Both rows repeat the application columns
	assert.Equal(t, first[:11], second[:11])

	assert.Equal(t, "Deep learning in plasma physics", first[12])
	assert.Equal(t, "Nature Physics", first[13])
	assert.Equal(t, "Web of Science", first[14])
	assert.Equal(t, "Q2", first[15])
	assert.Empty(t, first[16])
	assert.Equal(t, "10.1000/xyz", first[17])
	assert.Equal(t, "15.01.2025", first[18])
	assert.Equal(t, "2025", first[19])
	assert.Equal(t, "Vol:12, No:3, pp.45-60", first[20])
	assert.Equal(t, "No", first[21])
	assert.Equal(t, "No", first[22])
	assert.Equal(t, "Петров Петр (AIU, petrov@aiu.edu.kz, Доцент)\nExternal Person", first[24])
	assert.Equal(t, "7d4f-article.pdf", first[25])

	assert.Equal(t, "Scopus-indexed study", second[12])
	assert.Equal(t, "Scopus", second[14])
	assert.Empty(t, second[15])
	assert.Equal(t, "87", second[16])
}

func TestBuildApplicationsWorkbookFreezesHeader(t *testing.T) {
	content, err := BuildApplicationsWorkbook(nil)
	require.NoError(t, err)

	f := openWorkbook(t, content)
	panes, err := f.GetPanes(sheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, "A2", panes.TopLeftCell)
}

func TestVolNumPagesOmitsMissingParts(t *testing.T) {
	assert.Empty(t, volNumPages(&models.Paper{}))

	pages := &models.Paper{Pages: "10-20"}
	assert.Equal(t, "pp.10-20", volNumPages(pages))

	volume := 7
	full := &models.Paper{Volume: &volume, Number: "2", Pages: "1-9"}
	assert.Equal(t, "Vol:7, No:2, pp.1-9", volNumPages(full))
}
