package dto

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	semesterPattern     = regexp.MustCompile(`^S([1-9]|10)$`)
	levelPattern        = regexp.MustCompile(`^(L[1-3]|M[12])$`)
	academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
)

// RegisterValidators 向 gin 默认校验器注册业务标签：semester、level、academic_year
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("binding 校验器类型不是 *validator.Validate")
	}
	if err := v.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		return IsSemester(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return IsLevel(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		return IsAcademicYear(fl.Field().String())
	})
}

// IsSemester S1..S10
func IsSemester(s string) bool {
	return semesterPattern.MatchString(s)
}

// IsLevel L1..L3, M1, M2
func IsLevel(s string) bool {
	return levelPattern.MatchString(s)
}

// IsAcademicYear 形如 2025-2026，后一年必须紧跟前一年
func IsAcademicYear(s string) bool {
	m := academicYearPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	from, _ := strconv.Atoi(m[1])
	to, _ := strconv.Atoi(m[2])
	return to == from+1
}
