package schedulersvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

type refresherMock struct {
	calls  int
	userID string
	err    error
}

func (r *refresherMock) RefreshAllDrafts(_ context.Context, userID string) (int, error) {
	r.calls++
	r.userID = userID
	return 3, r.err
}

func TestScheduler_ScheduleDraftRefresh(t *testing.T) {
	s := NewScheduler(&refresherMock{}, core.NopLogger{})

	require.NoError(t, s.ScheduleDraftRefresh(""))
	assert.Empty(t, s.cron.Entries())

	require.NoError(t, s.ScheduleDraftRefresh("@every 1h"))
	assert.Len(t, s.cron.Entries(), 1)

	assert.Error(t, s.ScheduleDraftRefresh("not a schedule"))
}

func TestScheduler_refreshDrafts(t *testing.T) {
	r := &refresherMock{}
	s := NewScheduler(r, core.NopLogger{})

	s.refreshDrafts()
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, SystemUserID, r.userID)

	r.err = errors.New("db down")
	s.refreshDrafts()
	assert.Equal(t, 2, r.calls)
}
