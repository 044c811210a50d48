package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - internal/backend/cpu: pure Go kernels with worker-pool parallelism
//   - internal/backend/webgpu: GPU compute via WebGPU with CPU fallback
//
// Backends never mutate their inputs: every operation allocates a fresh
// result tensor, which keeps the loss functions built on top of them
// reentrant (see the losses package concurrency contract).
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor // Add scalar.
	SubScalar(x *RawTensor, scalar any) *RawTensor // Subtract scalar.
	MulScalar(x *RawTensor, scalar any) *RawTensor // Multiply by scalar.
	DivScalar(x *RawTensor, scalar any) *RawTensor // Divide by scalar.

	// Math operations (element-wise).
	Sqrt(x *RawTensor) *RawTensor               // Square root.
	Rsqrt(x *RawTensor) *RawTensor              // Reciprocal square root (1/sqrt(x)).
	Abs(x *RawTensor) *RawTensor                // Absolute value.
	PowScalar(x *RawTensor, p float64) *RawTensor // Element-wise power x^p.

	// Matrix operations.
	BatchMatMul(a, b *RawTensor) *RawTensor // Batched matrix multiplication for 3D/4D tensors.

	// Reduction operations.
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // Sum along dimension.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Mean along dimension.

	// Ordering operations.
	SortDim(x *RawTensor, dim int) *RawTensor // Ascending sort along dimension.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.
	Squeeze(x *RawTensor, dim int) *RawTensor        // Remove dimension of size 1.
	Unsqueeze(x *RawTensor, dim int) *RawTensor      // Add dimension of size 1.

	// Manipulation operations.
	Cat(tensors []*RawTensor, dim int) *RawTensor          // Concatenate along dimension.
	Narrow(x *RawTensor, dim, start, length int) *RawTensor // Slice [start, start+length) along dimension.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU", "WebGPU").
	Device() Device // Device type.
}
