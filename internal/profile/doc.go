// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package profile turns a dataset snapshot and a set of user options into the
// views of a country innovation profile: two all-country scatterplots, two
// per-country treemaps and headline totals.
//
// Views are plain data. Rendering lives in package render.
package profile
