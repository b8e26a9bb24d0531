// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package headernodefx

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/headernode"
	"go.uber.org/headernode/headernodeerrors"
	"go.uber.org/headernode/headernodetest"
	"go.uber.org/headernode/internal/testtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newProvider(t *testing.T, yaml string, env map[string]string) config.Provider {
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	provider, err := config.NewYAML(config.Source(strings.NewReader(yaml)), config.Expand(lookup))
	require.NoError(t, err)
	return provider
}

func TestNewConfig(t *testing.T) {
	res, err := NewConfig(ConfigParams{
		Provider: newProvider(t, `
headernode:
  name: edge
  address: ${HEADERNODE_ADDRESS:127.0.0.1:60000}
  logging:
    level: warn
  limits:
    maxHeaderBytes: 2048
    concurrency: 3
    readTimeout: 1500ms
`, map[string]string{"HEADERNODE_ADDRESS": "127.0.0.1:0"}),
	})
	require.NoError(t, err)
	assert.Equal(t, Config{
		Name:    "edge",
		Address: "127.0.0.1:0",
		Logging: LoggingConfig{Level: zapcore.WarnLevel},
		Limits: LimitsConfig{
			MaxHeaderBytes: 2048,
			Concurrency:    3,
			ReadTimeout:    1500 * time.Millisecond,
		},
	}, res.Config)
}

func TestNewConfigRequiresAddress(t *testing.T) {
	_, err := NewConfig(ConfigParams{Provider: newProvider(t, "headernode: {name: edge}", nil)})
	require.Error(t, err)
	assert.True(t, headernodeerrors.IsInvalidArgument(err))
}

func TestNodeLifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	core, logs := observer.New(zapcore.DebugLevel)

	ctrl, err := NewController(ControllerParams{
		Lifecycle: lc,
		Config:    Config{Name: "fx", Logging: LoggingConfig{Level: zapcore.InfoLevel}},
		Logger:    zap.New(core),
		Scope:     tally.NewTestScope("", nil),
	})
	require.NoError(t, err)

	rec := headernodetest.NewRecorder()
	node, err := NewNode(NodeParams{
		Controller: ctrl.Controller,
		Config:     Config{Address: "127.0.0.1:0"},
		Deliverer:  rec,
	})
	require.NoError(t, err)
	require.NoError(t, StartNode(StartNodeParams{Lifecycle: lc, Node: node.Node}))

	_, err = node.Node.Addr()
	assert.True(t, headernodeerrors.IsInvalidHandle(err), "not started yet")

	lc.RequireStart()
	addr, err := node.Node.Addr()
	require.NoError(t, err)
	assert.Equal(t, 1, ctrl.Controller.Len())

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	_, err = io.WriteString(conn, "X-Test: 1\r\n\r\n")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, conn)
	require.NoError(t, conn.Close())
	require.True(t, rec.WaitFor(1, testtime.Second))

	lc.RequireStop()
	assert.Equal(t, 0, ctrl.Controller.Len())
	assert.Zero(t, logs.FilterMessage("header node changed state").Len(), "debug logs are filtered out")
	assert.Equal(t, 1, logs.FilterMessage("stopped header node").Len())
}

func TestModule(t *testing.T) {
	rec := headernodetest.NewRecorder()
	var node *Node

	app := fxtest.New(t,
		fx.Provide(func() config.Provider {
			return newProvider(t, "headernode: {address: 127.0.0.1:0}", nil)
		}),
		fx.Provide(func() headernode.Deliverer { return rec }),
		Module,
		fx.Populate(&node),
	)
	app.RequireStart()

	addr, err := node.Addr()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", addr.String(), "port must be resolved")

	app.RequireStop()
	_, err = net.Dial("tcp", addr.String())
	assert.Error(t, err)
}

func TestModuleStartFailure(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() config.Provider {
			return newProvider(t, "headernode: {address: not-an-address}", nil)
		}),
		fx.Provide(func() headernode.Deliverer { return headernodetest.NewRecorder() }),
		Module,
	)
	require.NoError(t, app.Err())

	err := app.Start(testContext(t))
	require.Error(t, err)
	assert.True(t, headernodeerrors.IsAddressError(err), "got %v", err)
}
