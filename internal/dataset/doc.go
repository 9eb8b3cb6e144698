// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package dataset holds the four pre-aggregated tables behind a country
// profile and knows how to decode them from parquet or CSV.
//
// Numeric columns are optional: a null parquet value or an empty CSV cell
// reads as NaN through Value, never as zero.
package dataset
