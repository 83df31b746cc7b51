// Package io serializes derivation descriptors to and from JSON.
//
// The exported document is the output boundary of a generation run: an
// ordered list of crate derivations consumed by a downstream
// build-description generator. Field names round-trip losslessly, so a
// document written by [Write] and re-read by [Read] is identical, including
// the sha256 fields an external pass may have filled in between.
package io
