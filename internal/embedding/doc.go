// Package embedding defines the Embedder collaborator that maps a normalized
// image tensor to a fixed-length unit vector, plus the preprocessing that
// builds such tensors from photos and patch crops.
//
// Backends are chosen once at process start with New and passed to whoever
// needs them; there is no package-level embedder.
package embedding
