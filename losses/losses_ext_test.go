// Copyright 2025 The featdist Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package losses_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featdist-ml/featdist/backend/cpu"
	"github.com/featdist-ml/featdist/losses"
	"github.com/featdist-ml/featdist/tensor"
)

// End-to-end check of the public API surface: registry lookup, forward
// pass and the shared primitives, all through the exported packages.
func TestPublicAPI(t *testing.T) {
	backend := cpu.New()
	registry := losses.NewRegistry(backend)

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]float32{4, 3, 2, 1}, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)

	loss, err := registry.Get("wass")
	require.NoError(t, err)

	out, err := loss.Forward(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0, out.Item(), 1e-6)

	_, err = registry.Get("sinkhorn")
	assert.ErrorIs(t, err, losses.ErrUnknownLoss)

	m, err := losses.SpatialMoments(x, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, m.Mean.Item(), 1e-6)

	d, err := losses.WassersteinDistance(x, y, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0, d.Item(), 1e-6)
}

func TestPublicAPI_DirectConstruction(t *testing.T) {
	backend := cpu.New()

	cowass := losses.NewCoWassLoss(backend, 2)
	assert.InDelta(t, 0, cowass.Alpha(), 1e-6)

	shape := tensor.Shape{1, 4, 4, 2}
	x := tensor.Randn[float32](shape, backend)
	y := tensor.Randn[float32](shape, backend)

	out, err := cowass.Forward(x, y)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 2}))
	assert.Equal(t, 1, cowass.Step())
}
