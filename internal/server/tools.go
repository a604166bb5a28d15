package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Symbol Search
		{
			Name:        "symbol_search",
			Description: "Search a page image for every instance of a symbol template across the 0/90/180/270 degree orientations. Returns deduplicated matches with confidence scores, normalized bounding boxes, and pixel coordinates, ordered by descending confidence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the full page image to search in",
					},
					"template_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the template image (cropped symbol)",
					},
					"confidence_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence for a match (0.0-1.0). Default 0.7",
						"default":     0.7,
					},
					"method": map[string]interface{}{
						"type":        "string",
						"description": "Matching method: NORMALIZED_CORRELATION (default) or NORMALIZED_SQUARED_DIFFERENCE",
						"enum":        []string{"NORMALIZED_CORRELATION", "NORMALIZED_SQUARED_DIFFERENCE"},
					},
				},
				"required": []string{"image_path", "template_path"},
			},
		},

		// Page Inspection
		{
			Name:        "image_load",
			Description: "Load a page image and return its dimensions, format, and whether it is grayscale. Caches the decoded image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Sample the color at a pixel coordinate, returned as hex, RGB, and HSL. Useful for distinguishing line work from background before cropping a template.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Template Preparation
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from a page image and return it as base64-encoded PNG. Use this to cut a symbol template out of a page; keep scale at 1.0 for templates that will be searched against the same page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for visual inspection. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "template_rotate",
			Description: "Rotate a template image by 0, 90, 180, or 270 degrees and return the result as base64-encoded PNG, showing the footprint that orientation presents to the scanner.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the template image",
					},
					"angle": map[string]interface{}{
						"type":        "integer",
						"description": "Rotation angle in degrees",
						"enum":        []int{0, 90, 180, 270},
					},
				},
				"required": []string{"path", "angle"},
			},
		},
	}
}
