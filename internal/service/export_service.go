package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EnchantedPupu/atlas-backend-sub001/internal/repository"
	pkgerrors "github.com/EnchantedPupu/atlas-backend-sub001/pkg/errors"
)

var ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindPersistence, "生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	// ExportHistory 导出单个任务的交接记录
	ExportHistory(ctx context.Context, jobID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var historyHeaders = []string{
	"时间", "交出人", "交出岗位", "接收人", "接收岗位", "动作",
	"原状态", "新状态", "原核查状态", "新核查状态", "说明",
}

// ExportHistory 输出格式：
//   - 单个 Sheet "交接记录"
//   - 第 1 行标题（任务编号 + 项目名称），第 2 行表头
//   - 之后每条交接记录一行，按时间升序
func (s *exportService) ExportHistory(ctx context.Context, jobID string) (*bytes.Buffer, string, error) {
	// 1. 查询任务
	job, err := s.repo.SurveyJob.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrJobNotFound
		}
		s.logger.Error("查询任务失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, "", pkgerrors.Wrap(pkgerrors.KindPersistence, "查询任务失败", err)
	}

	// 2. 查询交接记录
	rows, err := s.repo.JobHistory.ListAllByJob(ctx, jobID)
	if err != nil {
		s.logger.Error("查询交接记录失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, "", pkgerrors.Wrap(pkgerrors.KindPersistence, "查询交接记录失败", err)
	}

	// 3. 解析用户姓名
	ids := make([]string, 0, len(rows)*2)
	for _, h := range rows {
		ids = append(ids, h.FromUserID, h.ToUserID)
	}
	names := make(map[string]string, len(ids))
	users, err := s.repo.User.ListByIDs(ctx, ids)
	if err != nil {
		// 姓名缺失时回退为用户 ID
		s.logger.Warn("查询用户姓名失败", zap.String("job_id", jobID), zap.Error(err))
	}
	for _, u := range users {
		names[u.UserID] = u.Name
	}
	nameOf := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return id
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交接记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "J", 14)
	f.SetColWidth(sheetName, "K", "K", 50)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — %s", job.JobNumber, job.ProjectName))
	f.MergeCell(sheetName, "A1", cell(colName(len(historyHeaders)-1), 1))

	for i, h := range historyHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(historyHeaders)-1), 2), headerStyle)

	row := 3
	for _, h := range rows {
		values := []interface{}{
			h.CreatedAt.Format("2006-01-02 15:04:05"),
			nameOf(h.FromUserID),
			h.FromRole,
			nameOf(h.ToUserID),
			h.ToRole,
			h.ActionType,
			h.StatusBefore,
			h.StatusAfter,
			h.PbtStatusBefore,
			h.PbtStatusAfter,
			h.Notes,
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	// 5. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("job-%s-history.xlsx", job.JobNumber)
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
