// Package ingest reads tabular EEG exports and turns them into an
// [eeg.Raw] recording and its [eeg.Events].
//
// A source table holds one row per acquisition tick. Signal rows carry a
// value in every channel column. Marker rows carry an event code and may
// leave the channel columns empty. [Build] separates the two: rows missing
// a channel value are dropped from the signal axis, and rows missing an
// event code are dropped from the event table.
//
// CSV/TSV, Parquet and XLSX sources are supported; see [Read].
package ingest
