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

// Package headernodeconfig loads the configuration of a header node from
// YAML or from an already parsed map.
//
// The expected shape is:
//
//	headernode:
//	  name: edge
//	  address: ${HEADERNODE_ADDRESS:127.0.0.1:60000}
//	  logging:
//	    level: info
//	  limits:
//	    maxHeaderBytes: 8192
//	    concurrency: 1
//	    readTimeout: 5s
//
// Only address is required. The name, address and limits fields may
// reference environment variables as ${NAME} or ${NAME:default}; use the
// InterpolationResolver option to resolve them from somewhere else.
//
//	cfg, err := headernodeconfig.New().LoadConfigFromYAML(f)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctrl := headernode.NewController(cfg.ControllerConfig(logger))
//	h, err := ctrl.Start(cfg.Address, deliverer)
package headernodeconfig
