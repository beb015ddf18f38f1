package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/markings-mcp/internal/embedding"
	"github.com/ironsheep/markings-mcp/internal/imaging"
	"github.com/ironsheep/markings-mcp/internal/logging"
	"github.com/ironsheep/markings-mcp/internal/markings"
)

// errInvalidArguments marks tool arguments that could not be decoded or are
// missing required values. It maps to JSON-RPC -32602.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "markings_fingerprint").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Invalid arguments return -32602; any other tool failure returns -32000.
// Every call is logged with a fresh request ID.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	requestID := uuid.NewString()
	log := logging.WithOperation(s.logger, params.Name, requestID)
	start := time.Now()

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		err = logging.NewOperationError(params.Name, requestID, err)
		log.Warn("tool failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	log.Debug("tool completed", zap.Duration("elapsed", time.Since(start)))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Fingerprints
	case "markings_fingerprint":
		return s.handleFingerprint(args)
	case "markings_compare":
		return s.handleCompare(args)

	// Histograms
	case "markings_color_histogram":
		return s.handleColorHistogram(args)
	case "markings_texture_histogram":
		return s.handleTextureHistogram(args)

	// Patches
	case "markings_patches":
		return s.handlePatches(args)
	case "markings_patch_crop":
		return s.handlePatchCrop(args)

	// Full pipeline
	case "markings_analyze":
		return s.handleAnalyze(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into v, tagging failures with
// errInvalidArguments.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// loadPhoto loads path through the cache after checking it was given.
func (s *Server) loadPhoto(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	return s.cache.Load(path)
}

// === Photo Information ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	return imaging.LoadPhotoInfo(s.cache, a.Path)
}

// === Fingerprint Handlers ===

// FingerprintResult is the serialized form of a perceptual hash.
type FingerprintResult struct {
	Hex   string `json:"hex"`
	Bytes string `json:"bytes_base64"`
}

func newFingerprintResult(fp markings.Fingerprint) FingerprintResult {
	return FingerprintResult{
		Hex:   fp.Hex(),
		Bytes: base64.StdEncoding.EncodeToString(fp.Bytes()),
	}
}

func (s *Server) handleFingerprint(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadPhoto(a.Path)
	if err != nil {
		return nil, err
	}
	fp, err := markings.Fingerprint64(img)
	if err != nil {
		return nil, err
	}
	return newFingerprintResult(fp), nil
}

type compareArgs struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
}

// CompareResult reports how far apart two photos' fingerprints are.
type CompareResult struct {
	A          FingerprintResult `json:"a"`
	B          FingerprintResult `json:"b"`
	Distance   int               `json:"distance"`
	Similarity float64           `json:"similarity"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	imgA, err := s.loadPhoto(a.PathA)
	if err != nil {
		return nil, err
	}
	imgB, err := s.loadPhoto(a.PathB)
	if err != nil {
		return nil, err
	}

	fpA, err := markings.Fingerprint64(imgA)
	if err != nil {
		return nil, fmt.Errorf("path_a: %w", err)
	}
	fpB, err := markings.Fingerprint64(imgB)
	if err != nil {
		return nil, fmt.Errorf("path_b: %w", err)
	}

	d := fpA.Distance(fpB)
	return &CompareResult{
		A:          newFingerprintResult(fpA),
		B:          newFingerprintResult(fpB),
		Distance:   d,
		Similarity: 1 - float64(d)/64,
	}, nil
}

// === Histogram Handlers ===

type colorHistogramArgs struct {
	Path string `json:"path"`
	Bins int    `json:"bins"`
}

// HistogramResult carries one descriptor vector.
type HistogramResult struct {
	Bins   int       `json:"bins"`
	Values []float64 `json:"values"`
}

func (s *Server) handleColorHistogram(args json.RawMessage) (interface{}, error) {
	var a colorHistogramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Bins == 0 {
		a.Bins = s.defaults.Bins
	}
	img, err := s.loadPhoto(a.Path)
	if err != nil {
		return nil, err
	}
	hist, err := markings.ColorHistogram(img, a.Bins)
	if err != nil {
		return nil, err
	}
	return &HistogramResult{Bins: a.Bins, Values: hist}, nil
}

func (s *Server) handleTextureHistogram(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadPhoto(a.Path)
	if err != nil {
		return nil, err
	}
	hist, err := markings.TextureHistogram(imaging.ToGray(img))
	if err != nil {
		return nil, err
	}
	return &HistogramResult{Bins: markings.TextureBins, Values: hist}, nil
}

// === Patch Handlers ===

// engineArgs are the optional engine overrides shared by the patch tools.
// Zero values (nil for the threshold) keep the server defaults.
type engineArgs struct {
	K           int      `json:"k"`
	Window      int      `json:"window"`
	Stride      int      `json:"stride"`
	IoU         *float64 `json:"iou"`
	WorkingSize int      `json:"working_size"`
}

func (a engineArgs) config(defaults markings.Config) markings.Config {
	cfg := defaults
	if a.K > 0 {
		cfg.K = a.K
	}
	if a.Window > 0 {
		cfg.Window = a.Window
	}
	if a.Stride > 0 {
		cfg.Stride = a.Stride
	}
	if a.IoU != nil {
		cfg.IoUThreshold = *a.IoU
	}
	if a.WorkingSize > 0 {
		cfg.WorkingSize = a.WorkingSize
	}
	return cfg
}

type patchesArgs struct {
	Path string `json:"path"`
	engineArgs
}

// PatchesResult lists the distinctive patches of a photo in working-image
// coordinates.
type PatchesResult struct {
	WorkingWidth  int              `json:"working_width"`
	WorkingHeight int              `json:"working_height"`
	Count         int              `json:"count"`
	Patches       []markings.Patch `json:"patches"`
}

// selectPatches returns the working image and its patches for path.
func (s *Server) selectPatches(path string, cfg markings.Config) (*image.NRGBA, []markings.Patch, error) {
	img, err := s.loadPhoto(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	working := imaging.ResizeShortSide(img, cfg.WorkingSize)
	patches, err := markings.SelectPatchesGray(imaging.ToGray(working), cfg)
	if err != nil {
		return nil, nil, err
	}
	return working, patches, nil
}

func (s *Server) handlePatches(args json.RawMessage) (interface{}, error) {
	var a patchesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	working, patches, err := s.selectPatches(a.Path, a.config(s.defaults))
	if err != nil {
		return nil, err
	}
	return &PatchesResult{
		WorkingWidth:  working.Bounds().Dx(),
		WorkingHeight: working.Bounds().Dy(),
		Count:         len(patches),
		Patches:       patches,
	}, nil
}

type patchCropArgs struct {
	Path  string   `json:"path"`
	Index int      `json:"index"`
	Scale *float64 `json:"scale"`
	engineArgs
}

// PatchCropResult is one patch rendered as PNG.
type PatchCropResult struct {
	Patch markings.Patch `json:"patch"`
	*imaging.CropResult
}

func (s *Server) handlePatchCrop(args json.RawMessage) (interface{}, error) {
	var a patchCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	scale := 1.0
	if a.Scale != nil {
		scale = *a.Scale
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale must be positive, got %g", errInvalidArguments, scale)
	}
	working, patches, err := s.selectPatches(a.Path, a.config(s.defaults))
	if err != nil {
		return nil, err
	}
	if a.Index < 0 || a.Index >= len(patches) {
		return nil, fmt.Errorf("%w: patch index %d out of range (photo has %d patches)",
			errInvalidArguments, a.Index, len(patches))
	}

	p := patches[a.Index]
	crop, err := imaging.CropPNG(working, p.Rect(), scale)
	if errors.Is(err, imaging.ErrInvalidScale) {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	if err != nil {
		return nil, err
	}
	return &PatchCropResult{Patch: p, CropResult: crop}, nil
}

// === Full Pipeline ===

type analyzeArgs struct {
	Path  string `json:"path"`
	Bins  int    `json:"bins"`
	Embed *bool  `json:"embed"`
	engineArgs
}

// AnalyzedPatch is a patch with its embedding vector, if one was requested.
type AnalyzedPatch struct {
	markings.Patch
	Embedding []float32 `json:"embedding,omitempty"`
}

// AnalyzeResult is everything the engine knows about one photo.
type AnalyzeResult struct {
	Fingerprint      FingerprintResult `json:"fingerprint"`
	ColorHistogram   []float64         `json:"color_histogram"`
	TextureHistogram []float64         `json:"texture_histogram"`
	WorkingWidth     int               `json:"working_width"`
	WorkingHeight    int               `json:"working_height"`
	Patches          []AnalyzedPatch   `json:"patches"`
	EmbeddingDim     int               `json:"embedding_dim,omitempty"`

	// Working is the resized image patch coordinates refer to.
	Working *image.NRGBA `json:"-"`
}

func (s *Server) handleAnalyze(args json.RawMessage) (interface{}, error) {
	var a analyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cfg := a.config(s.defaults)
	if a.Bins > 0 {
		cfg.Bins = a.Bins
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	img, err := s.loadPhoto(a.Path)
	if err != nil {
		return nil, err
	}
	embed := a.Embed == nil || *a.Embed
	return AnalyzePhoto(img, cfg, s.embedder, embed)
}

// AnalyzePhoto runs the full markings pipeline on img and, when embed is
// set, embeds every patch with e.
//
// Parameters:
//   - img: Decoded photo, at least 1x1.
//   - cfg: Engine configuration. Must pass markings.Config.Validate.
//   - e: Embedder applied to each patch. Unused when embed is false.
//   - embed: Whether to attach one embedding vector per patch.
//
// Returns:
//   - *AnalyzeResult: Fingerprint, color and texture histograms, the working
//     image size and the patches, each with its embedding when requested.
//   - error: Non-nil if any stage fails. No partial result is returned.
//
// Patches are cropped for embedding from the same working image the patch
// search ran on, so their coordinates and pixels always agree.
//
// # Errors
//
//   - Returns error wrapping markings.ErrInvalidInput for an empty image or an
//     invalid configuration
//   - Returns error if the embedder rejects a patch tensor
func AnalyzePhoto(img image.Image, cfg markings.Config, e embedding.Embedder, embed bool) (*AnalyzeResult, error) {
	analysis, err := markings.Analyze(img, cfg)
	if err != nil {
		return nil, err
	}

	result := &AnalyzeResult{
		Fingerprint:      newFingerprintResult(analysis.Fingerprint),
		ColorHistogram:   analysis.ColorHistogram,
		TextureHistogram: analysis.TextureHistogram,
		WorkingWidth:     analysis.WorkingWidth,
		WorkingHeight:    analysis.WorkingHeight,
		Patches:          make([]AnalyzedPatch, len(analysis.Patches)),
		Working:          analysis.Working,
	}
	for i, p := range analysis.Patches {
		result.Patches[i].Patch = p
	}
	if !embed || len(analysis.Patches) == 0 {
		return result, nil
	}

	vecs, err := embedding.EmbedPatches(e, analysis.Working, analysis.Patches, embedding.DefaultInputSize)
	if err != nil {
		return nil, fmt.Errorf("failed to embed patches: %w", err)
	}
	for i, v := range vecs {
		result.Patches[i].Embedding = v
	}
	result.EmbeddingDim = e.Dim()
	return result, nil
}
