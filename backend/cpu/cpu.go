// Copyright 2025 The featdist Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// The backend implements every operation the losses need — broadcasting
// arithmetic, reductions, batched matmul and lane sorting — with
// worker-pool parallelism for large tensors and no CGO.
package cpu

import (
	internalcpu "github.com/featdist-ml/featdist/internal/backend/cpu"
	"github.com/featdist-ml/featdist/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/featdist-ml/featdist/backend/cpu"
//	    "github.com/featdist-ml/featdist/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Randn[float32](tensor.Shape{8, 16, 16, 64}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
