package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写出
type ExportService interface {
	// ExportModuleGrades 导出模块成绩单
	ExportModuleGrades(ctx context.Context, moduleID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// gradeSheetHeaders 成绩单表头
var gradeSheetHeaders = []string{"学生", "邮箱", "TP", "DS", "项目", "平时", "总评", "评语"}

// ExportModuleGrades 每名学生一行，末行为模块平均分
//
//	| 学生 | 邮箱 | TP | DS | 项目 | 平时 | 总评 | 评语 |
func (s *exportService) ExportModuleGrades(ctx context.Context, moduleID string) (*bytes.Buffer, string, error) {
	// 1. 模块与成绩
	module, err := s.repo.Module.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrModuleNotFound
		}
		s.logger.Error("查询模块失败", zap.String("id", moduleID), zap.Error(err))
		return nil, "", err
	}
	evaluations, err := s.repo.Evaluation.ListByModule(ctx, moduleID)
	if err != nil {
		s.logger.Error("查询模块成绩失败", zap.String("module_id", moduleID), zap.Error(err))
		return nil, "", err
	}
	avg, err := s.repo.Evaluation.AverageByModule(ctx, moduleID)
	if err != nil {
		s.logger.Error("计算模块平均分失败", zap.String("module_id", moduleID), zap.Error(err))
		return nil, "", err
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 24)
	f.SetColWidth(sheetName, "C", "G", 10)
	f.SetColWidth(sheetName, "H", "H", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	lastCol := colName(len(gradeSheetHeaders) - 1)
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s（%s）成绩单", module.Name, module.Semester))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range gradeSheetHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	for _, e := range evaluations {
		name, email := e.StudentID, ""
		if e.Student != nil {
			name, email = e.Student.FullName(), e.Student.Email
		}
		values := []interface{}{
			name, email,
			scoreCell(e.TP), scoreCell(e.DS), scoreCell(e.Project), scoreCell(e.Participation),
			scoreCell(e.FinalScore), e.Feedback,
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	f.SetCellValue(sheetName, cell("F", row), "平均分")
	f.SetCellValue(sheetName, cell("G", row), roundScore(avg))

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("成绩单_%s.xlsx", module.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// scoreCell 空分项留白
func scoreCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return roundScore(*v)
}

func roundScore(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
