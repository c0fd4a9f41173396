package dig_container

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	echoapi "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/apps/api/echo"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
	schedulersvc "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/scheduler"
)

func testConfig(engine string) *core.Config {
	return &core.Config{
		AppName:  "College Results",
		Env:      "TEST",
		TestMode: true,
		Server:   core.ServerConfig{Host: ":0", DisableReqLogs: true},
		Database: core.DatabaseConfig{Engine: engine},
		Grading:  core.DefaultGradingConfig(),
	}
}

func TestNew(t *testing.T) {
	c := New(testConfig(EngineMemory))

	type params struct {
		dig.In
		DB        io.Closer `name:"db"`
		Server    *echoapi.Server
		Scheduler *schedulersvc.Scheduler
		Refresher schedulersvc.DraftRefresher
		Svc       *transcript.Service
	}
	err := c.Invoke(func(p params) {
		assert.NotNil(t, p.Server)
		assert.NotNil(t, p.Scheduler)
		assert.Same(t, p.Svc, p.Refresher)
		assert.NoError(t, p.DB.Close())
	})
	require.NoError(t, err)

	var graph bytes.Buffer
	require.NoError(t, Visualize(c, &graph))
	assert.Contains(t, graph.String(), "digraph")
}

func TestNew_unknownEngine(t *testing.T) {
	c := New(testConfig("mongo"))
	err := c.Invoke(func(*echoapi.Server) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown database engine "mongo"`)
}
