// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultVisualizationIndex is the index visualizations are saved into
	DefaultVisualizationIndex = "visualizations"
)
