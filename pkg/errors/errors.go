// Package errors 定义跨层共享的错误类别。
//
// 各 service 以 fmt.Errorf("%w: ...", Kind) 声明具体哨兵错误，
// handler 既可匹配具体哨兵，也可用 errors.Is 匹配类别。
package errors

import "errors"

var (
	// ErrInvalidInput 输入校验失败
	ErrInvalidInput = errors.New("参数无效")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrSchedulingConflict 课次与已有课次在教室/教师/班组维度重叠
	ErrSchedulingConflict = errors.New("排课冲突")
	// ErrAlreadyEnrolled 学生已选该模块
	ErrAlreadyEnrolled = errors.New("学生已选该模块")
	// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
	// ErrDuplicate 唯一约束冲突
	ErrDuplicate = errors.New("记录已存在")
)

// ConstraintError 数据库约束冲突，Kind 为 ErrDuplicate 或 ErrSchedulingConflict
type ConstraintError struct {
	Kind       error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return e.Kind.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Unwrap() error { return e.Kind }
