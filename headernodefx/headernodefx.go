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

// Package headernodefx runs a header node inside an fx application.
//
// The node is configured under the "headernode" key of the application's
// config.Provider:
//
//	headernode:
//	  name: edge
//	  address: ${HEADERNODE_ADDRESS:127.0.0.1:60000}
//	  logging:
//	    level: info
//	  limits:
//	    concurrency: 4
//	    readTimeout: 5s
//
// Build the Provider with config.Expand(os.LookupEnv) to resolve the
// ${...} references. The application must also provide the
// headernode.Deliverer that receives header events.
package headernodefx

import (
	"context"
	"net"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/headernode"
	"go.uber.org/headernode/headernodeerrors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const _configurationKey = "headernode"

// Module starts a header node when the application starts and stops it when
// the application stops.
var Module = fx.Options(
	fx.Provide(NewConfig),
	fx.Provide(NewController),
	fx.Provide(NewNode),
	fx.Invoke(StartNode),
)

// Config is the configuration of the node.
type Config struct {
	Name    string        `yaml:"name"`
	Address string        `yaml:"address"`
	Logging LoggingConfig `yaml:"logging"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// LoggingConfig configures the node's logs.
type LoggingConfig struct {
	Level zapcore.Level `yaml:"level"`
}

// LimitsConfig mirrors headernode.Limits.
type LimitsConfig struct {
	MaxHeaderBytes int           `yaml:"maxHeaderBytes"`
	Concurrency    int           `yaml:"concurrency"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
}

// ConfigParams defines the dependencies of NewConfig.
type ConfigParams struct {
	fx.In

	Provider config.Provider
}

// ConfigResult defines the values produced by NewConfig.
type ConfigResult struct {
	fx.Out

	Config Config
}

// NewConfig reads the node's Config from the Provider.
func NewConfig(p ConfigParams) (ConfigResult, error) {
	var c Config
	if err := p.Provider.Get(_configurationKey).Populate(&c); err != nil {
		return ConfigResult{}, err
	}
	if c.Address == "" {
		return ConfigResult{}, headernodeerrors.InvalidArgumentErrorf("%s.address is required", _configurationKey)
	}
	return ConfigResult{Config: c}, nil
}

// ControllerParams defines the dependencies of NewController.
type ControllerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    *zap.Logger `optional:"true"`
	Scope     tally.Scope `optional:"true"`
}

// ControllerResult defines the values produced by NewController.
type ControllerResult struct {
	fx.Out

	Controller *headernode.Controller
}

// NewController builds the Controller owning the node. It is closed when the
// application stops.
func NewController(p ControllerParams) (ControllerResult, error) {
	cfg := headernode.Config{
		Name: p.Config.Name,
		Limits: headernode.Limits{
			MaxHeaderBytes: p.Config.Limits.MaxHeaderBytes,
			Concurrency:    p.Config.Limits.Concurrency,
			ReadTimeout:    p.Config.Limits.ReadTimeout,
		},
		Metrics: headernode.MetricsConfig{Tally: p.Scope},
	}
	if p.Logger != nil {
		cfg.Logging.Zap = p.Logger.WithOptions(zap.IncreaseLevel(p.Config.Logging.Level))
	}

	ctrl := headernode.NewController(cfg)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return ctrl.Close()
		},
	})
	return ControllerResult{Controller: ctrl}, nil
}

// Node is the node run by this module.
type Node struct {
	controller *headernode.Controller
	address    string
	deliverer  headernode.Deliverer
	handle     headernode.Handle
}

// Addr returns the address the node is bound to. It fails unless the
// application is running.
func (n *Node) Addr() (net.Addr, error) {
	return n.controller.Addr(n.handle)
}

// NodeParams defines the dependencies of NewNode.
type NodeParams struct {
	fx.In

	Controller *headernode.Controller
	Config     Config
	Deliverer  headernode.Deliverer
}

// NodeResult defines the values produced by NewNode.
type NodeResult struct {
	fx.Out

	Node *Node
}

// NewNode prepares the Node without starting it.
func NewNode(p NodeParams) (NodeResult, error) {
	return NodeResult{
		Node: &Node{
			controller: p.Controller,
			address:    p.Config.Address,
			deliverer:  p.Deliverer,
		},
	}, nil
}

// StartNodeParams defines the dependencies of StartNode.
type StartNodeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Node      *Node
}

// StartNode ties the Node to the application lifecycle.
func StartNode(p StartNodeParams) error {
	n := p.Node
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			h, err := n.controller.Start(n.address, n.deliverer)
			if err != nil {
				return err
			}
			n.handle = h
			return nil
		},
		OnStop: func(context.Context) error {
			return n.controller.Stop(&n.handle)
		},
	})
	return nil
}
