package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// uniformAlign is the required size alignment of uniform buffers.
const uniformAlign = 16

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) (*wgpu.ShaderModule, error) {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader, nil
	}
	b.mu.RUnlock()

	shader, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to compile shader %q: %w", name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// Another goroutine may have compiled it while we were unlocked.
	if cached, exists := b.shaders[name]; exists {
		shader.Release()
		return cached, nil
	}
	b.shaders[name] = shader
	return shader, nil
}

// getOrCreatePipeline returns a cached compute pipeline for the shader,
// creating it on first use.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) (*wgpu.ComputePipeline, error) {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline, nil
	}
	b.mu.RUnlock()

	pipeline, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: name,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to create pipeline %q: %w", name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, exists := b.pipelines[name]; exists {
		pipeline.Release()
		return cached, nil
	}
	b.pipelines[name] = pipeline
	return pipeline, nil
}

// pipelineFor resolves a shader name from shaderSources to a ready pipeline.
func (b *Backend) pipelineFor(name string) (*wgpu.ComputePipeline, error) {
	code, ok := shaderSources[name]
	if !ok {
		return nil, fmt.Errorf("webgpu: unknown shader %q", name)
	}
	shader, err := b.compileShader(name, code)
	if err != nil {
		return nil, err
	}
	return b.getOrCreatePipeline(name, shader)
}

// createStorageBuffer uploads data into a new storage buffer.
func (b *Backend) createStorageBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	return b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
}

// createResultBuffer allocates an uninitialized storage buffer the shader
// writes into.
func (b *Backend) createResultBuffer(size uint64) (*wgpu.Buffer, error) {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "result",
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
}

// createUniformBuffer uploads shader params, padded to uniform alignment.
func (b *Backend) createUniformBuffer(data []byte) (*wgpu.Buffer, error) {
	aligned := (len(data) + uniformAlign - 1) &^ (uniformAlign - 1)
	padded := make([]byte, aligned)
	copy(padded, data)
	return b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "params",
		Contents: padded,
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "staging",
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to create staging buffer: %w", err)
	}
	defer stagingBuffer.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to create command encoder: %w", err)
	}
	defer encoder.Release()
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to finish copy commands: %w", err)
	}
	defer cmdBuffer.Release()
	b.queue.Submit(cmdBuffer)

	var status wgpu.BufferMapAsyncStatus
	err = stagingBuffer.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}
	b.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("webgpu: staging buffer map failed: status %v", status)
	}

	mapped := stagingBuffer.GetMappedRange(0, uint(size))
	result := make([]byte, size)
	copy(result, mapped)
	stagingBuffer.Unmap()

	return result, nil
}

// dispatch binds the buffers in binding order, runs one compute pass over
// numElements threads and submits it.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, buffers []*wgpu.Buffer, sizes []uint64, numElements int) error {
	entries := make([]wgpu.BindGroupEntry, len(buffers))
	for i, buf := range buffers {
		entries[i] = wgpu.BindGroupEntry{
			Binding: uint32(i), //nolint:gosec // G115: binding index is small
			Buffer:  buf,
			Offset:  0,
			Size:    sizes[i],
		}
	}

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "",
		Layout:  bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("webgpu: failed to create bind group: %w", err)
	}
	defer bindGroup.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("webgpu: failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize) //nolint:gosec // G115: non-negative
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: failed to finish compute commands: %w", err)
	}
	defer cmdBuffer.Release()
	b.queue.Submit(cmdBuffer)

	return nil
}

// runElementwise executes one of the cached elementwise shaders over the
// inputs and returns a fresh host-resident result tensor. extraParams bytes
// are appended to the uniform block after the u32 element count.
func (b *Backend) runElementwise(shaderName string, inputs []*tensor.RawTensor, extraParams []byte) (*tensor.RawTensor, error) {
	ref := inputs[0]
	if ref.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", ref.DType())
	}
	for _, in := range inputs[1:] {
		if !in.Shape().Equal(ref.Shape()) {
			return nil, fmt.Errorf("webgpu: shape mismatch: %v vs %v", ref.Shape(), in.Shape())
		}
		if in.DType() != ref.DType() {
			return nil, fmt.Errorf("webgpu: dtype mismatch: %s vs %s", ref.DType(), in.DType())
		}
	}

	numElements := ref.NumElements()
	byteSize := uint64(ref.ByteSize()) //nolint:gosec // G115: non-negative

	pipeline, err := b.pipelineFor(shaderName)
	if err != nil {
		return nil, err
	}

	buffers := make([]*wgpu.Buffer, 0, len(inputs)+2)
	sizes := make([]uint64, 0, len(inputs)+2)
	for _, in := range inputs {
		buf, bufErr := b.createStorageBuffer(shaderName, in.Data()[:in.ByteSize()])
		if bufErr != nil {
			for _, allocated := range buffers {
				allocated.Release()
			}
			return nil, fmt.Errorf("webgpu: failed to upload input: %w", bufErr)
		}
		buffers = append(buffers, buf)
		sizes = append(sizes, byteSize)
	}

	resultBuffer, err := b.createResultBuffer(byteSize)
	if err != nil {
		for _, allocated := range buffers {
			allocated.Release()
		}
		return nil, fmt.Errorf("webgpu: failed to allocate result: %w", err)
	}
	buffers = append(buffers, resultBuffer)
	sizes = append(sizes, byteSize)

	params := make([]byte, 4+len(extraParams))
	binary.LittleEndian.PutUint32(params[0:4], uint32(numElements)) //nolint:gosec // G115: non-negative
	copy(params[4:], extraParams)
	paramsBuffer, err := b.createUniformBuffer(params)
	if err != nil {
		for _, allocated := range buffers {
			allocated.Release()
		}
		return nil, fmt.Errorf("webgpu: failed to upload params: %w", err)
	}
	buffers = append(buffers, paramsBuffer)
	paramsSize := uint64((len(params) + uniformAlign - 1) &^ (uniformAlign - 1)) //nolint:gosec // G115: non-negative
	sizes = append(sizes, paramsSize)

	defer func() {
		for _, buf := range buffers {
			buf.Release()
		}
	}()

	if err := b.dispatch(pipeline, buffers, sizes, numElements); err != nil {
		return nil, err
	}

	data, err := b.readBuffer(resultBuffer, byteSize)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(ref.Shape(), ref.DType(), tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), data)
	return result, nil
}

// float32Params encodes a single f32 uniform field.
func float32Params(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}
