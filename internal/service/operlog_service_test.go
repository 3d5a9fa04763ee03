package service

import (
	"context"
	"errors"
	"testing"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/repository/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOperLogStore struct {
	insertN   int64
	insertErr error
	last      *model.SysOperLog
	cleaned   bool
}

func (f *fakeOperLogStore) Insert(_ context.Context, rec *model.SysOperLog) (int64, error) {
	f.last = rec
	return f.insertN, f.insertErr
}
func (f *fakeOperLogStore) List(_ context.Context, q dao.OperLogQuery, page, limit int) ([]model.SysOperLog, int64, error) {
	return []model.SysOperLog{{OperID: 1, Title: "菜单管理"}}, 1, nil
}
func (f *fakeOperLogStore) Delete(_ context.Context, operID int64) (int64, error) { return 1, nil }
func (f *fakeOperLogStore) Clean(_ context.Context) error {
	f.cleaned = true
	return nil
}

func TestDBRecorder(t *testing.T) {
	f := &fakeOperLogStore{insertN: 1}
	r := NewDBRecorder(f)
	rec := &model.SysOperLog{Title: "菜单管理"}
	require.NoError(t, r.Record(context.Background(), rec))
	assert.Same(t, rec, f.last)
}

func TestDBRecorderZeroRows(t *testing.T) {
	r := NewDBRecorder(&fakeOperLogStore{insertN: 0})
	err := r.Record(context.Background(), &model.SysOperLog{})
	assert.Error(t, err, "0 行写入必须暴露为错误")
}

func TestDBRecorderPropagatesError(t *testing.T) {
	want := errors.New("db down")
	r := NewDBRecorder(&fakeOperLogStore{insertErr: want})
	assert.ErrorIs(t, r.Record(context.Background(), &model.SysOperLog{}), want)
}

func TestOperLogServiceListAndClean(t *testing.T) {
	f := &fakeOperLogStore{}
	s := NewOperLogService(f)
	res, err := s.List(context.Background(), dao.OperLogQuery{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Count)
	require.Len(t, res.List, 1)

	require.NoError(t, s.Clean(context.Background()))
	assert.True(t, f.cleaned)
}
