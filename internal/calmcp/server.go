// Package calmcp exposes the calibration gate over MCP (stdio) so agent
// orchestrators can validate methods without linking the module.
package calmcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"calibra/internal/logging"
	"calibra/internal/score"
	"calibra/internal/store"
	"calibra/internal/validate"
)

// Server wraps the MCP SDK server around a Validator. Run it with
// s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{}).
type Server struct {
	MCPServer *sdkmcp.Server

	validator *validate.Validator
	store     store.Store
	log       *slog.Logger
}

// NewServer creates a calibration MCP server with all tools registered.
// st may be nil when run persistence is disabled.
func NewServer(version string, validator *validate.Validator, st store.Store) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(
			&sdkmcp.Implementation{Name: "calibra", Version: version},
			nil,
		),
		validator: validator,
		store:     st,
		log:       logging.New("calmcp"),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_method",
		Description: "Validate one analysis method in a context. Returns the decision, fused score, threshold, and per-layer scores.",
	}, s.handleValidateMethod)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_batch",
		Description: "Validate many methods and return the batch report with the aggregate decision.",
	}, s.handleValidateBatch)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "resolve_role",
		Description: "Resolve a method identifier to its role, required layers, and effective threshold.",
	}, s.handleResolveRole)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "explain_failure",
		Description: "Return the fixed remediation list for a failure reason.",
	}, s.handleExplainFailure)
}

// --- Tool input/output types ---

type validateMethodInput struct {
	Method validate.RequestDoc `json:"method" jsonschema:"the validation request document"`
}

type validateMethodOutput struct {
	Result score.ValidationResult `json:"result"`
}

type validateBatchInput struct {
	Methods []validate.RequestDoc `json:"methods" jsonschema:"validation request documents"`
	Workers int                   `json:"workers,omitempty" jsonschema:"worker pool size (default 4)"`
	Persist bool                  `json:"persist,omitempty" jsonschema:"save the run to the audit store"`
}

type validateBatchOutput struct {
	Report score.ValidationReport `json:"report"`
}

type resolveRoleInput struct {
	MethodID string `json:"method_id" jsonschema:"method identifier"`
}

type resolveRoleOutput struct {
	MethodID       string   `json:"method_id"`
	Role           string   `json:"role"`
	Executor       bool     `json:"executor"`
	RequiredLayers []string `json:"required_layers"`
}

type explainFailureInput struct {
	Reason string `json:"reason" jsonschema:"failure reason from a validation result"`
}

type explainFailureOutput struct {
	Reason          string   `json:"reason"`
	Recommendations []string `json:"recommendations"`
}

// --- Tool handlers ---

func (s *Server) handleValidateMethod(_ context.Context, _ *sdkmcp.CallToolRequest, input validateMethodInput) (*sdkmcp.CallToolResult, validateMethodOutput, error) {
	item, err := input.Method.Build(s.validator.Docs().Hash, ".")
	if err != nil {
		return nil, validateMethodOutput{}, err
	}
	result := s.validator.Validate(item.Request, item.Override)
	s.log.Info("validated", "method", result.MethodID, "decision", result.Decision, "score", result.Score)
	return nil, validateMethodOutput{Result: result}, nil
}

func (s *Server) handleValidateBatch(ctx context.Context, _ *sdkmcp.CallToolRequest, input validateBatchInput) (*sdkmcp.CallToolResult, validateBatchOutput, error) {
	items := make([]validate.BatchItem, 0, len(input.Methods))
	for _, doc := range input.Methods {
		item, err := doc.Build(s.validator.Docs().Hash, ".")
		if err != nil {
			return nil, validateBatchOutput{}, err
		}
		items = append(items, item)
	}
	workers := input.Workers
	if workers <= 0 {
		workers = 4
	}
	rep := s.validator.ValidateBatch(ctx, items, workers)
	if input.Persist && s.store != nil {
		if err := s.store.SaveReport(rep); err != nil {
			s.log.Warn("failed to persist run", "run_id", rep.RunID, "error", err)
		}
	}
	return nil, validateBatchOutput{Report: rep}, nil
}

func (s *Server) handleResolveRole(_ context.Context, _ *sdkmcp.CallToolRequest, input resolveRoleInput) (*sdkmcp.CallToolResult, resolveRoleOutput, error) {
	resolver := s.validator.Resolver()
	role := resolver.Resolve(input.MethodID)
	required := resolver.RequiredLayers(input.MethodID)
	names := make([]string, len(required))
	for i, l := range required {
		names[i] = string(l)
	}
	return nil, resolveRoleOutput{
		MethodID:       input.MethodID,
		Role:           string(role),
		Executor:       resolver.IsExecutor(input.MethodID),
		RequiredLayers: names,
	}, nil
}

func (s *Server) handleExplainFailure(_ context.Context, _ *sdkmcp.CallToolRequest, input explainFailureInput) (*sdkmcp.CallToolResult, explainFailureOutput, error) {
	reason := score.FailureReason(input.Reason)
	return nil, explainFailureOutput{
		Reason:          input.Reason,
		Recommendations: validate.Recommendations(reason),
	}, nil
}
