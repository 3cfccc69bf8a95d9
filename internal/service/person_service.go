package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrPersonNotFound   = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)
	ErrEmailExists      = fmt.Errorf("%w: 邮箱已被使用", pkgerrors.ErrDuplicate)
	ErrProfileMismatch  = fmt.Errorf("%w: 必须且只能提供与角色对应的档案", pkgerrors.ErrInvalidInput)
	ErrUserSelfDelete   = fmt.Errorf("%w: 不能删除自己", pkgerrors.ErrInvalidInput)
	ErrImportNoData     = fmt.Errorf("%w: Excel文件无数据行（第一行为表头）", pkgerrors.ErrInvalidInput)
	ErrImportBadHeader  = fmt.Errorf("%w: Excel表头缺少必要列（名/姓/邮箱/年级/班组）", pkgerrors.ErrInvalidInput)
	ErrImportTooManyRow = fmt.Errorf("%w: 数据行数超过上限 %d 行", pkgerrors.ErrInvalidInput, maxImportRows)
)

const (
	maxImportRows      = 1000
	tempPasswordLength = 10
)

// PersonService 用户业务接口
type PersonService interface {
	Create(ctx context.Context, req *dto.CreatePersonRequest, callerID string) (*dto.PersonResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PersonResponse, error)
	List(ctx context.Context, req *dto.PersonListRequest) ([]dto.PersonResponse, int64, error)
	Delete(ctx context.Context, id string, callerID string) error
	ParseImportFile(reader io.Reader) ([]ImportStudentRow, error)
	ImportStudents(ctx context.Context, rows []ImportStudentRow, callerID string) (*dto.ImportStudentsResponse, error)
}

// ImportStudentRow Excel 导入解析后的单行数据
type ImportStudentRow struct {
	Row         int
	FirstName   string
	LastName    string
	Email       string
	ProgramName string
	Level       string
	GroupName   string
}

type personService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(repo *repository.Repository, logger *zap.Logger) PersonService {
	return &personService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest, callerID string) (*dto.PersonResponse, error) {
	person := &model.Person{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      req.Role,
	}
	if p := req.Student; p != nil {
		person.Student = &model.StudentProfile{
			ProgramID: p.ProgramID,
			Level:     p.Level,
			GroupName: strings.TrimSpace(p.GroupName),
			Skills:    model.StringArray(p.Skills),
		}
	}
	if p := req.Teacher; p != nil {
		person.Teacher = &model.TeacherProfile{
			Speciality:   p.Speciality,
			Grade:        p.Grade,
			TeachingLoad: p.TeachingLoad,
			Skills:       model.StringArray(p.Skills),
		}
	}
	if p := req.Admin; p != nil {
		person.Admin = &model.AdminProfile{Department: p.Department}
	}

	// 1. 角色与档案一致
	if !person.ProfileConsistent() {
		return nil, ErrProfileMismatch
	}

	// 2. 引用校验
	if person.Student != nil && person.Student.ProgramID != nil {
		if _, err := s.repo.Program.GetByID(ctx, *person.Student.ProgramID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProgramNotFound
			}
			s.logger.Error("查询专业失败", zap.Error(err))
			return nil, err
		}
	}

	// 3. 邮箱唯一性
	if _, err := s.repo.Person.GetByEmail(ctx, person.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}
	person.PasswordHash = string(hash)
	person.CreatedBy = &callerID
	person.UpdatedBy = &callerID

	if err := s.repo.Person.Create(ctx, person); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, person.UserID)
}

// ────────────────────── 查询 ──────────────────────

func (s *personService) GetByID(ctx context.Context, id string) (*dto.PersonResponse, error) {
	person, err := s.repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toPersonResponse(person)
	return &resp, nil
}

func (s *personService) List(ctx context.Context, req *dto.PersonListRequest) ([]dto.PersonResponse, int64, error) {
	persons, total, err := s.repo.Person.List(ctx, repository.PersonFilter{
		Role:      req.Role,
		Keyword:   req.Keyword,
		ProgramID: req.ProgramID,
		Level:     req.Level,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		result = append(result, toPersonResponse(&persons[i]))
	}
	return result, total, nil
}

// ────────────────────── Delete ──────────────────────

func (s *personService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}
	if err := s.repo.Person.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ParseImportFile ──────────────────────

// ParseImportFile 解析学生导入 Excel，第一行为表头，列序不限
func (s *personService) ParseImportFile(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: 无法解析Excel文件: %v", pkgerrors.ErrInvalidInput, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取工作表失败: %v", pkgerrors.ErrInvalidInput, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseHeaderIndex(excelRows[0])
	for _, key := range []string{"first_name", "last_name", "email", "level", "group"} {
		if colIndex[key] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	var rows []ImportStudentRow
	for i := 1; i < len(excelRows); i++ {
		raw := excelRows[i]
		get := func(key string) string {
			if idx := colIndex[key]; idx >= 0 && idx < len(raw) {
				return strings.TrimSpace(raw[idx])
			}
			return ""
		}
		item := ImportStudentRow{
			Row:         i + 1,
			FirstName:   get("first_name"),
			LastName:    get("last_name"),
			Email:       strings.ToLower(get("email")),
			ProgramName: get("program"),
			Level:       strings.ToUpper(get("level")),
			GroupName:   get("group"),
		}

		// 跳过全空行
		if item.FirstName == "" && item.LastName == "" && item.Email == "" && item.GroupName == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRow
	}
	return rows, nil
}

// parseHeaderIndex 表头列名 → 列索引，缺失列为 -1
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"first_name": -1,
		"last_name":  -1,
		"email":      -1,
		"program":    -1,
		"level":      -1,
		"group":      -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "名", "prenom", "prénom", "first_name":
			idx["first_name"] = i
		case "姓", "nom", "last_name":
			idx["last_name"] = i
		case "邮箱", "email":
			idx["email"] = i
		case "专业", "filiere", "filière", "program":
			idx["program"] = i
		case "年级", "niveau", "level":
			idx["level"] = i
		case "班组", "groupe", "group":
			idx["group"] = i
		}
	}
	return idx
}

// ────────────────────── ImportStudents ──────────────────────

// ImportStudents 逐行创建学生账号，单行失败只记录不中断
func (s *personService) ImportStudents(ctx context.Context, rows []ImportStudentRow, callerID string) (*dto.ImportStudentsResponse, error) {
	resp := &dto.ImportStudentsResponse{
		Total:    len(rows),
		Errors:   []dto.RowError{},
		Accounts: []dto.ImportedAccount{},
	}

	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("加载专业列表失败", zap.Error(err))
		return nil, err
	}
	programByName := make(map[string]string, len(programs))
	for _, p := range programs {
		programByName[strings.ToLower(p.Name)] = p.ProgramID
	}

	fail := func(row int, msg string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.RowError{Row: row, Message: msg})
	}

	for _, row := range rows {
		if row.FirstName == "" || row.LastName == "" || row.Email == "" || row.GroupName == "" {
			fail(row.Row, "必填字段为空")
			continue
		}
		if !dto.IsLevel(row.Level) {
			fail(row.Row, fmt.Sprintf("年级无效: %s", row.Level))
			continue
		}

		var programID *string
		if row.ProgramName != "" {
			id, ok := programByName[strings.ToLower(row.ProgramName)]
			if !ok {
				fail(row.Row, fmt.Sprintf("专业不存在: %s", row.ProgramName))
				continue
			}
			programID = &id
		}

		pwd, err := generateTempPassword(tempPasswordLength)
		if err != nil {
			fail(row.Row, "生成临时密码失败")
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
		if err != nil {
			fail(row.Row, "密码哈希失败")
			continue
		}

		person := &model.Person{
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			Email:        row.Email,
			PasswordHash: string(hash),
			Role:         model.RoleStudent,
			Student: &model.StudentProfile{
				ProgramID: programID,
				Level:     row.Level,
				GroupName: row.GroupName,
			},
		}
		person.CreatedBy = &callerID
		person.UpdatedBy = &callerID

		if err := s.repo.Person.Create(ctx, person); err != nil {
			if errors.Is(err, pkgerrors.ErrDuplicate) {
				fail(row.Row, fmt.Sprintf("邮箱已存在: %s", row.Email))
				continue
			}
			s.logger.Error("导入学生写入失败", zap.Int("row", row.Row), zap.Error(err))
			fail(row.Row, "写入数据库失败")
			continue
		}

		resp.Created++
		resp.Accounts = append(resp.Accounts, dto.ImportedAccount{
			Row:          row.Row,
			ID:           person.UserID,
			Email:        person.Email,
			TempPassword: pwd,
		})
	}

	s.logger.Info("学生批量导入完成",
		zap.Int("total", resp.Total),
		zap.Int("created", resp.Created),
		zap.Int("failed", resp.Failed))

	return resp, nil
}

// generateTempPassword 生成指定长度的临时密码（至少包含一个字母和一个数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}
	result := make([]byte, length)

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}
	return string(result), nil
}
