// Package export renders application aggregates into the two download
// formats: the review spreadsheet and the claim document.
package export

import (
	"fmt"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aiu/stimulus/internal/app/models"
)

const sheetName = "Applications"

// Status font colors in the spreadsheet.
const (
	colorApproved  = "006100"
	colorSubmitted = "806000"
	colorRejected  = "9C0006"
	colorHeaderBG  = "4F81BD"
)

type columnSpec struct {
	title string
	width float64
	wrap  bool
}

// Application columns come first, then one block of paper columns; the sheet
// holds one row per (application, paper) pair.
var columnsConfig = []columnSpec{
	{"App ID", 12, false},
	{"Report Year", 12, false},
	{"Status", 15, true},
	{"Faculty", 30, true},
	{"Owner Name", 30, true},
	{"Owner Email", 30, false},
	{"Position", 20, true},
	{"Subdivision", 20, true},
	{"Phone", 15, false},
	{"Created At", 18, false},
	{"Admin Comment", 30, true},
	{"Paper ID", 36, false},
	{"Title", 40, true},
	{"Journal/Source", 25, true},
	{"Indexation", 12, false},
	{"Quartile (WoS)", 15, false},
	{"Percentile (Scopus)", 18, false},
	{"DOI", 25, false},
	{"Pub. Date", 12, false},
	{"Year", 8, false},
	{"Vol/Num/Pages", 20, false},
	{"Affiliation (AIU)", 15, false},
	{"Platonus", 15, false},
	{"Source URL", 30, false},
	{"Coauthors", 35, true},
	{"File Name", 25, false},
}

const paperColumnCount = 15

// BuildApplicationsWorkbook renders the applications into a single-sheet
// workbook. Applications without papers still get one row with the paper
// cells blank.
func BuildApplicationsWorkbook(apps []*models.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, styles); err != nil {
		return nil, err
	}

	rowIdx := 2
	for _, app := range apps {
		baseCells := applicationCells(app)

		papers := app.Papers
		if len(papers) == 0 {
			row := append(baseCells, make([]interface{}, paperColumnCount)...)
			if err := writeRow(f, styles, rowIdx, app.Status, row); err != nil {
				return nil, err
			}
			rowIdx++
			continue
		}

		for _, paper := range papers {
			row := append(append([]interface{}{}, baseCells...), paperCells(paper)...)
			if err := writeRow(f, styles, rowIdx, app.Status, row); err != nil {
				return nil, err
			}
			rowIdx++
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}

type workbookStyles struct {
	header          int
	topWrap         int
	topNoWrap       int
	statusByValue   map[models.ApplicationStatus]int
	statusPlainWrap int
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeaderBG}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center", Vertical: "center", WrapText: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	topWrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, err
	}

	topNoWrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: false},
	})
	if err != nil {
		return nil, err
	}

	statusColors := map[models.ApplicationStatus]string{
		models.StatusApproved:  colorApproved,
		models.StatusSubmitted: colorSubmitted,
		models.StatusRejected:  colorRejected,
	}
	statusByValue := make(map[models.ApplicationStatus]int, len(statusColors))
	for status, color := range statusColors {
		styleID, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: color},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		})
		if err != nil {
			return nil, err
		}
		statusByValue[status] = styleID
	}

	return &workbookStyles{
		header:          header,
		topWrap:         topWrap,
		topNoWrap:       topNoWrap,
		statusByValue:   statusByValue,
		statusPlainWrap: topWrap,
	}, nil
}

func writeHeader(f *excelize.File, styles *workbookStyles) error {
	for i, column := range columnsConfig {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, column.title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, styles.header); err != nil {
			return err
		}

		letter, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, letter, letter, column.width); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, styles *workbookStyles, rowIdx int, status models.ApplicationStatus, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
		if err != nil {
			return err
		}
		if value != nil {
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}

		styleID := styles.topNoWrap
		if columnsConfig[i].wrap {
			styleID = styles.topWrap
		}
		// Status column gets the status color
		if i == 2 {
			if colored, ok := styles.statusByValue[status]; ok {
				styleID = colored
			} else {
				styleID = styles.statusPlainWrap
			}
		}
		if err := f.SetCellStyle(sheetName, cell, cell, styleID); err != nil {
			return err
		}
	}
	return nil
}

// applicationCells renders the 11 application-level columns.
func applicationCells(app *models.Application) []interface{} {
	faculty := ""
	if app.Faculty != nil {
		faculty = app.Faculty.Label()
	}

	var ownerFullName, ownerEmail, ownerPosition, ownerSubdivision, ownerTelephone string
	if app.Owner != nil {
		ownerFullName = app.Owner.FullName
		ownerEmail = app.Owner.Email
		ownerPosition = app.Owner.Position
		ownerSubdivision = app.Owner.Subdivision
		ownerTelephone = app.Owner.Telephone
	}

	// Short ID: the first segment of the UUID
	shortID := strings.SplitN(app.ID.String(), "-", 2)[0]

	return []interface{}{
		shortID,
		app.ReportYear,
		app.Status.Label(),
		faculty,
		ownerFullName,
		ownerEmail,
		ownerPosition,
		ownerSubdivision,
		ownerTelephone,
		app.CreatedAt.Local().Format("2006-01-02 15:04"),
		app.AdminComment,
	}
}

// paperCells renders the 15 paper-level columns.
func paperCells(paper *models.Paper) []interface{} {
	quartile := ""
	if paper.Quartile != nil {
		quartile = string(*paper.Quartile)
	}

	var percentile interface{} = ""
	if paper.Percentile != nil {
		percentile = *paper.Percentile
	}

	pubDate := ""
	if paper.PublicationDate != nil {
		pubDate = paper.PublicationDate.Format("02.01.2006")
	}

	var year interface{} = ""
	if paper.Year != nil && *paper.Year != 0 {
		year = *paper.Year
	}

	fileName := ""
	if paper.FileUpload != nil && *paper.FileUpload != "" {
		fileName = path.Base(*paper.FileUpload)
	}

	return []interface{}{
		paper.ID.String(),
		paper.Title,
		paper.JournalOrSource,
		paper.Indexation.Label(),
		quartile,
		percentile,
		paper.DOI,
		pubDate,
		year,
		volNumPages(paper),
		yesNo(paper.HasUniversityAffiliation),
		yesNo(paper.RegisteredInPlatonus),
		paper.SourceURL,
		CoauthorsHuman(paper),
		fileName,
	}
}

// volNumPages collapses volume, number and pages into one cell, omitting
// absent parts: "Vol:12, No:3, pp.45-60".
func volNumPages(paper *models.Paper) string {
	var parts []string
	if paper.Volume != nil && *paper.Volume != 0 {
		parts = append(parts, fmt.Sprintf("Vol:%d", *paper.Volume))
	}
	if paper.Number != "" {
		parts = append(parts, "No:"+paper.Number)
	}
	if paper.Pages != "" {
		parts = append(parts, "pp."+paper.Pages)
	}
	return strings.Join(parts, ", ")
}

// CoauthorsHuman renders a paper's coauthors one per line as
// "Name (AIU, email, position)" with only the present tags.
func CoauthorsHuman(paper *models.Paper) string {
	var items []string
	for _, co := range paper.Coauthors {
		var details []string
		if co.IsAIUEmployee {
			details = append(details, "AIU")
		}
		if co.Email != "" {
			details = append(details, co.Email)
		}
		if co.Position != "" {
			details = append(details, co.Position)
		}

		item := co.FullName
		if len(details) > 0 {
			item += " (" + strings.Join(details, ", ") + ")"
		}
		items = append(items, item)
	}
	return strings.Join(items, "\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
