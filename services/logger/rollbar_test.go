package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	conf := &core.Config{Env: "TEST", TestMode: true, Debug: debug}
	return NewRollbarLogger(log.New(&buf, "", 0), conf, "api"), &buf
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newTestLogger(false)
	err := errors.New("db down")
	caller := core.Caller{TenantID: "tenant-1", UserID: "admin-1"}

	got, rbArgs := l.Named("scheduler").prepare("refreshing drafts", []interface{}{
		caller,
		core.Caller{TenantID: "tenant-2", UserID: "admin-2"},
		err,
		map[string]interface{}{"refreshed": 3},
		map[string]string{"transcript_id": "t-1"},
		nil,
	})

	require.NotNil(t, got)
	assert.Equal(t, caller, *got)
	require.Len(t, rbArgs, 3)
	assert.Equal(t, "refreshing drafts", rbArgs[0])
	assert.Equal(t, map[string]interface{}{
		"component":     "scheduler",
		"message":       "refreshing drafts",
		"tenant_id":     "tenant-1",
		"refreshed":     3,
		"transcript_id": "t-1",
	}, rbArgs[1])
	assert.Same(t, err, rbArgs[2])
}

func TestRollbarLogger_print(t *testing.T) {
	l, buf := newTestLogger(false)

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Warn("using the in-memory store", map[string]string{"engine": "memory"})
	assert.Equal(t, "WARNING [api] using the in-memory store\n\tmap[engine:memory]\n", buf.String())

	l, buf = newTestLogger(true)
	l.Named("db").Debug("shown")
	assert.Equal(t, "DEBUG [db] shown\n", buf.String())
}
