// Package server implements the MCP (Model Context Protocol) server that
// exposes the pet markings engine as tools.
//
// This package provides a JSON-RPC 2.0 server over stdio. MCP clients load a
// pet photo by path and ask for its fingerprint, descriptors or distinctive
// patches.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Photo Information:
//   - image_load: Load a photo and get metadata
//
// Fingerprints:
//   - markings_fingerprint: 64-bit perceptual hash
//   - markings_compare: Hamming distance between two photos
//
// Descriptors:
//   - markings_color_histogram: CIE Lab color histogram
//   - markings_texture_histogram: LBP texture histogram
//
// Patches:
//   - markings_patches: Distinctive square regions after overlap suppression
//   - markings_patch_crop: One patch as base64 PNG
//
// Full Pipeline:
//   - markings_analyze: Everything above plus one embedding per patch
//
// Patch coordinates always refer to the working image, the photo resized so
// its shorter side equals the working size (256 by default).
//
// # Image Caching
//
// Decoded photos are cached by path for the lifetime of the server process,
// so a client can ask several questions about one photo without re-reading it.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses:
//   - -32602: missing or malformed arguments, out-of-range patch index
//   - -32000: any other tool failure (unreadable photo, engine error)
//
// The data field carries the tool name, the request ID and the Go error string.
//
// # Usage
//
//	srv := server.New(server.Options{Logger: logger, Embedder: e})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
