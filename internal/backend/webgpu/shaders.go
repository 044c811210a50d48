// Package webgpu provides embedded WGSL compute shaders for tensor operations.
package webgpu

import "fmt"

// workgroupSize is the number of threads per workgroup. All elementwise
// shaders dispatch ceil(n/workgroupSize) one-dimensional workgroups.
const workgroupSize = 256

// binaryShader builds an elementwise binary shader: result[i] = a[i] <op> b[i].
// Inputs must be contiguous float32 buffers of equal length.
func binaryShader(op string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = a[idx] %s b[idx];
    }
}
`, workgroupSize, op)
}

// scalarShader builds an elementwise tensor-scalar shader:
// result[i] = x[i] <op> params.scalar.
func scalarShader(op string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    scalar: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = x[idx] %s params.scalar;
    }
}
`, workgroupSize, op)
}

// unaryShader builds an elementwise unary shader: result[i] = expr(x[i]),
// where expr is a WGSL expression over the variable v.
func unaryShader(expr string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        let v = x[idx];
        result[idx] = %s;
    }
}
`, workgroupSize, expr)
}

// powShader raises every element to the power params.exponent. WGSL pow is
// undefined for negative bases, so the sign is handled explicitly: odd and
// even integer exponents keep the usual real-valued semantics.
func powShader() string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    exponent: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        let v = x[idx];
        let p = params.exponent;
        if (v >= 0.0) {
            result[idx] = pow(v, p);
        } else {
            let ip = round(p);
            if (abs(p - ip) < 1e-6) {
                let m = pow(-v, p);
                if (abs(ip %% 2.0) < 0.5) {
                    result[idx] = m;
                } else {
                    result[idx] = -m;
                }
            } else {
                result[idx] = pow(v, p); // NaN, same as CPU
            }
        }
    }
}
`, workgroupSize)
}

// shaderSources maps shader names to their WGSL code. Compiled modules and
// pipelines are cached per Backend, keyed by these names.
var shaderSources = map[string]string{
	"add": binaryShader("+"),
	"sub": binaryShader("-"),
	"mul": binaryShader("*"),
	"div": binaryShader("/"),

	"add_scalar": scalarShader("+"),
	"sub_scalar": scalarShader("-"),
	"mul_scalar": scalarShader("*"),
	"div_scalar": scalarShader("/"),

	"sqrt":  unaryShader("sqrt(v)"),
	"rsqrt": unaryShader("inverseSqrt(v)"),
	"abs":   unaryShader("abs(v)"),

	"pow_scalar": powShader(),
}
