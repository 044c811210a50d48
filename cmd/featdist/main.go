// Package main provides the featdist CLI: evaluate any registered loss on
// random feature tensors, for smoke-testing backends and eyeballing loss
// magnitudes.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/featdist-ml/featdist/backend/cpu"
	"github.com/featdist-ml/featdist/backend/webgpu"
	"github.com/featdist-ml/featdist/losses"
	"github.com/featdist-ml/featdist/tensor"
)

const version = "v0.1.0"

// config holds the evaluation parameters. Flags override file values.
type config struct {
	Loss    string `toml:"loss"`
	Shape   string `toml:"shape"`
	Backend string `toml:"backend"`
	Warmup  int    `toml:"warmup"`
	Steps   int    `toml:"steps"`
	Seed    int64  `toml:"seed"`
}

func defaultConfig() config {
	return config{
		Loss:    "m2",
		Shape:   "4x8x8x16",
		Backend: "cpu",
		Warmup:  0,
		Steps:   1,
		Seed:    0,
	}
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("featdist %s\n", version)
		return
	}

	cfg := defaultConfig()

	fs := flag.NewFlagSet("featdist", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML config file (flags override file values)")
	lossName := fs.String("loss", cfg.Loss, "loss name (m1, m2, covar, gram, m3, wass, cowass, rpwass)")
	shapeSpec := fs.String("shape", cfg.Shape, "input shape as BxHxWxC")
	backendName := fs.String("backend", cfg.Backend, "compute backend (cpu, webgpu)")
	warmup := fs.Int("warmup", cfg.Warmup, "warmup steps for cowass (0 disables the ramp)")
	steps := fs.Int("steps", cfg.Steps, "number of forward calls")
	seed := fs.Int64("seed", cfg.Seed, "RNG seed for rpwass channel draws (0 = process RNG)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			fatal(err)
		}
	}
	// Explicitly set flags win over file values.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "loss":
			cfg.Loss = *lossName
		case "shape":
			cfg.Shape = *shapeSpec
		case "backend":
			cfg.Backend = *backendName
		case "warmup":
			cfg.Warmup = *warmup
		case "steps":
			cfg.Steps = *steps
		case "seed":
			cfg.Seed = *seed
		}
	})

	if err := run(cfg); err != nil {
		fatal(err)
	}
}

func loadConfig(path string, cfg *config) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func run(cfg config) error {
	shape, err := parseShape(cfg.Shape)
	if err != nil {
		return err
	}

	switch cfg.Backend {
	case "cpu":
		return evaluate(cfg, shape, cpu.New())
	case "webgpu":
		gpu, err := webgpu.New()
		if err != nil {
			return err
		}
		defer gpu.Release()
		return evaluate(cfg, shape, gpu)
	default:
		return fmt.Errorf("unknown backend %q (available: cpu, webgpu)", cfg.Backend)
	}
}

// evaluate builds the requested loss and runs it on Randn inputs.
func evaluate[B tensor.Backend](cfg config, shape tensor.Shape, backend B) error {
	loss, err := buildLoss(cfg, backend)
	if err != nil {
		return err
	}

	yTrue := tensor.Randn[float32](shape, backend)
	yPred := tensor.Randn[float32](shape, backend)

	steps := cfg.Steps
	if steps < 1 {
		steps = 1
	}
	for step := 0; step < steps; step++ {
		out, err := loss.Forward(yTrue, yPred)
		if err != nil {
			return err
		}
		fmt.Printf("step %d  %s%v  mean=%g\n", step, cfg.Loss, out.Shape(), meanOf(out))
	}
	return nil
}

// buildLoss returns the named loss. The two configurable variants are
// constructed directly; everything else comes from the registry.
func buildLoss[B tensor.Backend](cfg config, backend B) (losses.Loss[B], error) {
	switch cfg.Loss {
	case "cowass":
		if cfg.Warmup != 0 {
			return losses.NewCoWassLoss(backend, cfg.Warmup), nil
		}
	case "rpwass":
		if cfg.Seed != 0 {
			rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // G404: reproducible draws, not security
			return losses.NewRandPairWassLoss(backend, rng), nil
		}
	}
	return losses.NewRegistry(backend).Get(cfg.Loss)
}

// parseShape parses "BxHxWxC" into a rank-4 shape.
func parseShape(spec string) (tensor.Shape, error) {
	parts := strings.Split(strings.ToLower(spec), "x")
	if len(parts) != 4 {
		return nil, fmt.Errorf("shape must be BxHxWxC, got %q", spec)
	}
	shape := make(tensor.Shape, len(parts))
	for i, part := range parts {
		dim, err := strconv.Atoi(part)
		if err != nil || dim <= 0 {
			return nil, fmt.Errorf("shape must be BxHxWxC with positive dims, got %q", spec)
		}
		shape[i] = dim
	}
	return shape, nil
}

func meanOf[B tensor.Backend](t *tensor.Tensor[float32, B]) float32 {
	data := t.Data()
	if len(data) == 0 {
		return 0
	}
	var sum float32
	for _, v := range data {
		sum += v
	}
	return sum / float32(len(data))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "featdist:", err)
	os.Exit(1)
}
