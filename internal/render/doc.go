// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package render draws profile views as SVG and assembles the HTML page.
package render
