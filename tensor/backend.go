// Copyright 2025 The featdist Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/featdist-ml/featdist/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go kernels with worker-pool parallelism
//   - backend/webgpu: cross-platform GPU compute via WebGPU
//
// Backends never mutate their inputs: every operation allocates a fresh
// result tensor.
//
// Example:
//
//	import (
//	    "github.com/featdist-ml/featdist/backend/cpu"
//	    "github.com/featdist-ml/featdist/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Randn[float32](tensor.Shape{8, 16, 16, 64}, backend)
//	y := tensor.Randn[float32](tensor.Shape{8, 16, 16, 64}, backend)
//	z := x.Sub(y)  // Uses backend.Sub under the hood
type Backend = tensor.Backend
