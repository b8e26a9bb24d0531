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

package headernodeconfig

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/headernode"
	"go.uber.org/headernode/headernodeerrors"
	"go.uber.org/headernode/internal/config"
	"go.uber.org/headernode/internal/interpolate"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// Option customizes a Configurator.
type Option func(*Configurator)

// InterpolationResolver sets the function used to look up variables
// referenced in configuration values. Defaults to os.LookupEnv.
func InterpolationResolver(f func(name string) (value string, ok bool)) Option {
	return func(c *Configurator) {
		c.resolver = f
	}
}

// Configurator loads NodeConfigs.
type Configurator struct {
	resolver interpolate.VariableResolver
}

// New builds a Configurator.
func New(opts ...Option) *Configurator {
	c := &Configurator{resolver: os.LookupEnv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NodeConfig is the loaded configuration of one node.
type NodeConfig struct {
	// Address to start the node on.
	Address string

	// Minimum level of the node's logs.
	Level zapcore.Level

	// Everything else, ready for headernode.NewController.
	Config headernode.Config
}

// ControllerConfig returns Config with logging sent to logger at Level or
// above.
func (nc NodeConfig) ControllerConfig(logger *zap.Logger) headernode.Config {
	cfg := nc.Config
	if logger != nil {
		cfg.Logging.Zap = logger.WithOptions(zap.IncreaseLevel(nc.Level))
	}
	return cfg
}

// LoadConfigFromYAML loads a NodeConfig from YAML. Use LoadConfig if you
// have already parsed a map[string]interface{} or
// map[interface{}]interface{}.
func (c *Configurator) LoadConfigFromYAML(r io.Reader) (NodeConfig, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return NodeConfig{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return NodeConfig{}, headernodeerrors.InvalidArgumentErrorf("cannot parse YAML: %w", err)
	}
	return c.LoadConfig(data)
}

// LoadConfig loads a NodeConfig from a map[string]interface{} or
// map[interface{}]interface{}.
func (c *Configurator) LoadConfig(data interface{}) (NodeConfig, error) {
	var cfg fileConfig
	if err := config.DecodeInto(&cfg, data, config.InterpolateWith(c.resolver)); err != nil {
		return NodeConfig{}, headernodeerrors.InvalidArgumentErrorf("cannot decode configuration: %w", err)
	}
	if err := cfg.Node.validate(); err != nil {
		return NodeConfig{}, headernodeerrors.InvalidArgumentErrorf("invalid configuration: %w", err)
	}
	return cfg.Node.build(), nil
}

// NewControllerFromYAML loads a NodeConfig from YAML and builds a Controller
// logging to logger. The Controller has not started anything yet.
func (c *Configurator) NewControllerFromYAML(r io.Reader, logger *zap.Logger) (*headernode.Controller, NodeConfig, error) {
	nc, err := c.LoadConfigFromYAML(r)
	if err != nil {
		return nil, NodeConfig{}, err
	}
	return headernode.NewController(nc.ControllerConfig(logger)), nc, nil
}

func (n *nodeConfig) validate() (err error) {
	if n.Address == "" {
		err = multierr.Append(err, errors.New("address is required"))
	}
	if n.Limits.MaxHeaderBytes < 0 {
		err = multierr.Append(err, fmt.Errorf("limits.maxHeaderBytes must not be negative, got %d", n.Limits.MaxHeaderBytes))
	}
	if n.Limits.Concurrency < 0 {
		err = multierr.Append(err, fmt.Errorf("limits.concurrency must not be negative, got %d", n.Limits.Concurrency))
	}
	if n.Limits.ReadTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("limits.readTimeout must not be negative, got %v", n.Limits.ReadTimeout))
	}
	return err
}

func (n *nodeConfig) build() NodeConfig {
	level := zapcore.InfoLevel
	if n.Logging.Level != nil {
		level = zapcore.Level(*n.Logging.Level)
	}
	return NodeConfig{
		Address: n.Address,
		Level:   level,
		Config: headernode.Config{
			Name: n.Name,
			Limits: headernode.Limits{
				MaxHeaderBytes: n.Limits.MaxHeaderBytes,
				Concurrency:    n.Limits.Concurrency,
				ReadTimeout:    n.Limits.ReadTimeout,
			},
		},
	}
}
