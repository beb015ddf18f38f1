package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the pet photo (PNG, JPEG, GIF, WebP, BMP or TIFF)",
	}
}

// engineProperties returns the optional patch search overrides, merged into
// props.
func engineProperties(props map[string]interface{}) map[string]interface{} {
	props["k"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of patches. Default 5",
		"default":     5,
	}
	props["window"] = map[string]interface{}{
		"type":        "integer",
		"description": "Patch window side in working-image pixels. Default 64",
		"default":     64,
	}
	props["stride"] = map[string]interface{}{
		"type":        "integer",
		"description": "Step between window positions. Default 32",
		"default":     32,
	}
	props["iou"] = map[string]interface{}{
		"type":        "number",
		"description": "Overlap (IoU) above which a weaker patch is discarded. Default 0.4",
		"default":     0.4,
	}
	props["working_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Shorter side of the resized image patches are searched on. Default 256",
		"default":     256,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a pet photo and return its dimensions, format, color depth and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Fingerprints
		{
			Name:        "markings_fingerprint",
			Description: "Compute the 64-bit perceptual hash of a photo. Near-identical photos produce hashes with a small Hamming distance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "markings_compare",
			Description: "Fingerprint two photos and report the Hamming distance between them (0 = identical, 64 = opposite).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the first photo",
					},
					"path_b": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the second photo",
					},
				},
				"required": []string{"path_a", "path_b"},
			},
		},

		// Histograms
		{
			Name:        "markings_color_histogram",
			Description: "Build the CIE Lab color histogram of a photo: L, a and b density histograms concatenated (3 x bins values).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"bins": map[string]interface{}{
						"type":        "integer",
						"description": "Bins per channel. Default 16",
						"default":     16,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "markings_texture_histogram",
			Description: "Build the 256-bin Local Binary Pattern texture histogram of a photo.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Patches
		{
			Name:        "markings_patches",
			Description: "Find the most textured, mostly non-overlapping square regions of a photo (coat markings). Coordinates refer to the resized working image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": engineProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "markings_patch_crop",
			Description: "Return one distinctive patch as a base64-encoded PNG so it can be inspected visually.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": engineProperties(map[string]interface{}{
					"path": pathProperty(),
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based patch index, in score order",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned crop, must be positive. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path", "index"},
			},
		},

		// Full pipeline
		{
			Name:        "markings_analyze",
			Description: "Run the whole markings pipeline: fingerprint, color and texture histograms, distinctive patches and one embedding vector per patch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": engineProperties(map[string]interface{}{
					"path": pathProperty(),
					"bins": map[string]interface{}{
						"type":        "integer",
						"description": "Bins per Lab channel. Default 16",
						"default":     16,
					},
					"embed": map[string]interface{}{
						"type":        "boolean",
						"description": "Embed each patch with the configured embedder. Default true",
						"default":     true,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
