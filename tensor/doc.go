// Copyright 2025 The featdist Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for featdist.
//
// # Overview
//
// Tensors are the data structure every loss in this module operates on.
// This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Zero-copy operations where possible
//   - Device abstraction (CPU, WebGPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/featdist-ml/featdist/backend/cpu"
//	    "github.com/featdist-ml/featdist/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create rank-4 feature tensors (batch, height, width, channel)
//	    x := tensor.Randn[float32](tensor.Shape{8, 16, 16, 64}, backend)
//	    y := tensor.Randn[float32](tensor.Shape{8, 16, 16, 64}, backend)
//
//	    // Tensor operations
//	    diff := x.Sub(y)
//	    sq := diff.Mul(diff)
//	}
//
// # Supported Data Types
//
// The tensor package supports floating-point types via the DType constraint:
// float32 and float64. The losses package operates on float32, the native
// precision of the feature extractors it is built for.
//
// # Broadcasting
//
// Binary operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{8, 16, 16, 1}, backend)   // (8, 16, 16, 1)
//	b := tensor.Ones[float32](tensor.Shape{8, 16, 16, 64}, backend)   // (8, 16, 16, 64)
//	c := a.Add(b)                                                     // (8, 16, 16, 64)
//
// # Memory Management
//
// The underlying data is reference-counted; Clone is a cheap
// copy-on-write operation and buffers are freed when the last
// reference is released.
package tensor
