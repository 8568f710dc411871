package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
)

// Service handles Excel exports of campaign scan data
type Service struct {
	scanRepo     *repository.ScanEventRepository
	campaignRepo *repository.CampaignRepository
	exportsDir   string
}

// NewExcelService creates a new Excel service instance
func NewExcelService(
	scanRepo *repository.ScanEventRepository,
	campaignRepo *repository.CampaignRepository,
	exportsDir string) *Service {
	// Create exports directory if it doesn't exist
	if _, err := os.Stat(exportsDir); os.IsNotExist(err) {
		os.MkdirAll(exportsDir, 0755)
	}

	return &Service{
		scanRepo:     scanRepo,
		campaignRepo: campaignRepo,
		exportsDir:   exportsDir,
	}
}

// ExportResult contains the result of an export operation
type ExportResult struct {
	Success  bool
	Message  string
	Filename string
	FilePath string
}

// ExportCampaignScans exports a campaign's scan events to an Excel file
func (s *Service) ExportCampaignScans(campaignID string) (*ExportResult, error) {
	// Generate file path
	timestamp := time.Now().Unix()
	filename := fmt.Sprintf("campaign_scans_%s_%d.xlsx", campaignID, timestamp)
	filePath := filepath.Join(s.exportsDir, filename)

	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	events, err := s.scanRepo.GetAllByCampaignID(campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan events: %w", err)
	}

	stats, err := s.scanRepo.Stats(campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan stats: %w", err)
	}

	// Create a new Excel file
	f := excelize.NewFile()

	// Scans sheet
	scanSheetName := "Scans"
	defaultSheetName := f.GetSheetName(0)
	err = f.SetSheetName(defaultSheetName, scanSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(0)

	scanColumns := []string{
		"id", "campaign_id", "campaign_name", "occurred_at",
		"client_ip", "user_agent", "referer",
	}

	// Write headers
	for i, col := range scanColumns {
		cell := fmt.Sprintf("%s1", columnToLetter(i+1))
		f.SetCellValue(scanSheetName, cell, col)
	}

	// Apply header styling
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFFF00"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err == nil {
		f.SetCellStyle(scanSheetName, "A1", columnToLetter(len(scanColumns))+"1", headerStyle)
	}

	// Set column widths
	for i, col := range scanColumns {
		colLetter := columnToLetter(i + 1)
		width := 20.0 // Default width

		switch col {
		case "id", "campaign_id":
			width = 38.0
		case "campaign_name":
			width = 25.0
		case "occurred_at":
			width = 22.0
		case "client_ip":
			width = 16.0
		case "user_agent":
			width = 50.0
		case "referer":
			width = 40.0
		}

		f.SetColWidth(scanSheetName, colLetter, colLetter, width)
	}

	// Write scan rows
	if len(events) > 0 {
		for j, event := range events {
			rowNum := j + 2 // Start from row 2 (after headers)
			f.SetCellValue(scanSheetName, fmt.Sprintf("A%d", rowNum), event.ID)
			f.SetCellValue(scanSheetName, fmt.Sprintf("B%d", rowNum), event.CampaignID)
			f.SetCellValue(scanSheetName, fmt.Sprintf("C%d", rowNum), campaign.Name)
			f.SetCellValue(scanSheetName, fmt.Sprintf("D%d", rowNum), event.OccurredAt.Format(time.RFC3339))
			f.SetCellValue(scanSheetName, fmt.Sprintf("E%d", rowNum), event.ClientIP)
			f.SetCellValue(scanSheetName, fmt.Sprintf("F%d", rowNum), event.UserAgent)
			f.SetCellValue(scanSheetName, fmt.Sprintf("G%d", rowNum), event.Referer)
		}
	} else {
		f.SetCellValue(scanSheetName, "A2", "no scans recorded for this campaign")
	}

	// Summary sheet
	summarySheetName := "Summary"
	_, err = f.NewSheet(summarySheetName)
	if err == nil {
		f.SetCellValue(summarySheetName, "A1", "campaign")
		f.SetCellValue(summarySheetName, "B1", campaign.Name)
		f.SetCellValue(summarySheetName, "A2", "campaign_type")
		f.SetCellValue(summarySheetName, "B2", campaign.CampaignType)
		f.SetCellValue(summarySheetName, "A3", "total_scans")
		f.SetCellValue(summarySheetName, "B3", stats.Total)
		f.SetCellValue(summarySheetName, "A4", "last_7_days")
		f.SetCellValue(summarySheetName, "B4", stats.Last7Days)
		f.SetCellValue(summarySheetName, "A5", "last_30_days")
		f.SetCellValue(summarySheetName, "B5", stats.Last30Days)
		f.SetColWidth(summarySheetName, "A", "A", 18)
		f.SetColWidth(summarySheetName, "B", "B", 40)
	}

	// Save the file
	if err := f.SaveAs(filePath); err != nil {
		return nil, fmt.Errorf("failed to save Excel file: %w", err)
	}

	return &ExportResult{
		Success:  true,
		Message:  fmt.Sprintf("Successfully exported %d scans for campaign %s", len(events), campaign.ID),
		Filename: filename,
		FilePath: filePath,
	}, nil
}

// Helper function to convert column number to Excel column letter
func columnToLetter(col int) string {
	var result string
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
