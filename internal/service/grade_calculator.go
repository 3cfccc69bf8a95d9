package service

import (
	"fmt"

	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// 分项权重，按 20 分制绝对比例计入，不随缺项重新归一
const (
	WeightTP            = 0.2
	WeightDS            = 0.4
	WeightProject       = 0.3
	WeightParticipation = 0.1
)

// 分项成绩取值范围
const (
	MinPartialScore = 0.0
	MaxPartialScore = 20.0
)

// ErrPartialScoreOutOfRange 分项成绩超出 [0,20]
var ErrPartialScoreOutOfRange = fmt.Errorf("%w: 分项成绩必须在 0 到 20 之间", pkgerrors.ErrInvalidInput)

// ComputeFinalScore 按固定权重累加已给出的分项
// 四项均为空时返回 nil；只有 TP=10 时结果为 2.0
func ComputeFinalScore(tp, ds, project, participation *float64) *float64 {
	var (
		sum     float64
		present int
	)
	for _, p := range []struct {
		score  *float64
		weight float64
	}{
		{tp, WeightTP},
		{ds, WeightDS},
		{project, WeightProject},
		{participation, WeightParticipation},
	} {
		if p.score == nil {
			continue
		}
		sum += *p.score * p.weight
		present++
	}
	if present == 0 {
		return nil
	}
	return &sum
}

// ValidatePartialScores 检查每个非空分项是否位于 [0,20]
func ValidatePartialScores(scores ...*float64) error {
	for _, s := range scores {
		if s != nil && (*s < MinPartialScore || *s > MaxPartialScore) {
			return ErrPartialScoreOutOfRange
		}
	}
	return nil
}
