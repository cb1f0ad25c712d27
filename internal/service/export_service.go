package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"college-erp/internal/dto"
	"college-erp/internal/model"
	"college-erp/internal/repository"
	"college-erp/pkg/pdf"
)

// ── export errors ──

var (
	ErrExportFormat       = errors.New("export format must be csv, pdf or xlsx")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// ExportService student list exports
//
// Rows carry the profile columns plus the derived fee status so the file
// doubles as a dues report. The handler streams the returned bytes.
type ExportService interface {
	ExportStudents(ctx context.Context, actor Actor, req *dto.ExportStudentsRequest) (*dto.FileResponse, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportHeaders = []string{
	"Name", "Email", "Roll No", "Enrollment No", "Program", "Branch", "Year", "Section",
	"Contact", "Fee", "Paid", "Dues", "Fee Status",
}

func (s *exportService) ExportStudents(ctx context.Context, actor Actor, req *dto.ExportStudentsRequest) (*dto.FileResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))

	students, err := s.repo.User.ListAllStudents(ctx, actor.CollegeID, repository.StudentFilter{
		Program: strings.TrimSpace(req.Program),
		Branch:  strings.TrimSpace(req.Branch),
		Year:    strings.TrimSpace(req.Year),
		Section: strings.TrimSpace(req.Section),
	})
	if err != nil {
		s.logger.Error("list students for export failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	fees, err := buildFeeRows(ctx, s.repo, s.logger, students)
	if err != nil {
		return nil, err
	}
	rows := exportRows(students, fees)

	base := "students_" + time.Now().Format("20060102")
	switch format {
	case "csv":
		data, err := renderCSV(rows)
		if err != nil {
			s.logger.Error("write csv failed", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		return &dto.FileResponse{Filename: base + ".csv", ContentType: "text/csv; charset=utf-8", Data: data}, nil

	case "pdf":
		college := defaultBrandName
		if c, err := s.repo.College.GetByID(ctx, actor.CollegeID); err == nil {
			college = c.Name
		}
		data, err := pdf.RenderTable(college, "Student List", exportHeaders, rows)
		if err != nil {
			s.logger.Error("render student pdf failed", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		return &dto.FileResponse{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil

	case "xlsx":
		data, err := renderXLSX(rows)
		if err != nil {
			s.logger.Error("write xlsx failed", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
		return &dto.FileResponse{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}
	return nil, ErrExportFormat
}

func exportRows(students []model.User, fees []dto.StudentFeeRow) [][]string {
	rows := make([][]string, 0, len(students))
	for i := range students {
		st := &students[i]
		enrollment := ""
		if st.EnrollmentNo != nil {
			enrollment = *st.EnrollmentNo
		}
		fee := fees[i]
		rows = append(rows, []string{
			st.Name, st.Email, st.RollNoValue(), enrollment,
			st.Program, st.Branch, st.Year, st.Section, st.Contact,
			fee.ConfigAmount.StringFixed(2), fee.PaidAmount.StringFixed(2), fee.Dues.StringFixed(2), fee.Status,
		})
	}
	return rows
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Students"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeaders {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(exportHeaders)-1), 1), headerStyle)
	f.SetColWidth(sheet, "A", "B", 28)
	f.SetColWidth(sheet, "C", colName(len(exportHeaders)-1), 14)

	for r, row := range rows {
		for c, v := range row {
			f.SetCellValue(sheet, cell(colName(c), r+2), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ── helpers ──

// colName maps a zero-based column index to its letter.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
