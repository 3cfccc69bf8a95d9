package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

type stubSource struct {
	modules []model.Module
	err     error
	calls   int
}

func (s *stubSource) ModulesOf(context.Context, string) ([]model.Module, error) {
	s.calls++
	return s.modules, s.err
}

func TestPreferCurrent_UsesPrimaryWhenNonEmpty(t *testing.T) {
	primary := &stubSource{modules: []model.Module{{ModuleID: "current"}}}
	fallback := &stubSource{modules: []model.Module{{ModuleID: "legacy"}}}

	got, err := PreferCurrent(primary, fallback).ModulesOf(context.Background(), "stu")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "current", got[0].ModuleID)
	assert.Zero(t, fallback.calls)
}

func TestPreferCurrent_FallsBackWhenEmpty(t *testing.T) {
	primary := &stubSource{}
	fallback := &stubSource{modules: []model.Module{{ModuleID: "legacy"}}}

	got, err := PreferCurrent(primary, fallback).ModulesOf(context.Background(), "stu")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "legacy", got[0].ModuleID)
}

func TestPreferCurrent_PrimaryErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	primary := &stubSource{err: boom}
	fallback := &stubSource{modules: []model.Module{{ModuleID: "legacy"}}}

	_, err := PreferCurrent(primary, fallback).ModulesOf(context.Background(), "stu")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, fallback.calls)
}

func TestDefaultEnrollmentSource(t *testing.T) {
	st := newMockStore()
	st.addModule("m-1", "p", "S1")
	st.addModule("m-2", "p", "S1")
	st.enrollments.link("stu", "m-2")
	src := NewDefaultEnrollmentSource(st.repository())

	got, err := src.ModulesOf(context.Background(), "stu")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m-2", got[0].ModuleID)

	require.NoError(t, st.enrollments.Create(context.Background(), &model.Enrollment{StudentID: "stu", ModuleID: "m-1"}))
	got, err = src.ModulesOf(context.Background(), "stu")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m-1", got[0].ModuleID)
}
