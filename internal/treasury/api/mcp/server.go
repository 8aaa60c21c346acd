// Package mcp exposes the treasury engine as MCP tools over stdio. Mutating
// tools require an operator grant; query tools are open.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ansu555/Moltiverse-cult/internal/treasury/auth"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/engine"
	"github.com/ansu555/Moltiverse-cult/internal/treasury/storage"
)

const tracerName = "github.com/ansu555/Moltiverse-cult/internal/treasury/api/mcp"

// Config assembles a treasury MCP server.
type Config struct {
	// Engine is the treasury state machine. Required.
	Engine *engine.Engine
	// Journal serves the audit event query tool. Required.
	Journal storage.Journal
	// States, when set, persists the engine state after every mutation.
	States storage.StateStore
	// Grants verifies operator grant tokens on mutating tools.
	Grants auth.OperatorGrantConfig
	// Name and Version identify the MCP implementation.
	Name    string
	Version string
}

// Server wires the engine into an MCP tool server.
type Server struct {
	engine  *engine.Engine
	journal storage.Journal
	states  storage.StateStore
	grants  auth.OperatorGrantConfig
	tracer  trace.Tracer
	mcp     *mcp.Server
}

// New builds the server and registers every treasury tool.
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("mcp: engine is required")
	}
	if cfg.Journal == nil {
		return nil, errors.New("mcp: journal is required")
	}
	name := cfg.Name
	if name == "" {
		name = "moltiverse-treasury"
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		engine:  cfg.Engine,
		journal: cfg.Journal,
		states:  cfg.States,
		grants:  cfg.Grants,
		tracer:  otel.Tracer(tracerName),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	s.registerTools()
	return s, nil
}

// Run serves MCP over stdio until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// begin opens a span for one tool call and resolves the operator grant.
func (s *Server) begin(ctx context.Context, tool, grant string) (context.Context, trace.Span, auth.Principal, error) {
	ctx, span := s.tracer.Start(ctx, tool)
	principal, err := auth.VerifyOperatorGrant(grant, s.grants)
	if err != nil {
		return ctx, span, "", err
	}
	span.SetAttributes(attribute.String("treasury.operator", string(principal)))
	return ctx, span, principal, nil
}

// finish records the call outcome on the span.
func finish(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

// persist saves the engine state when a state store is configured. The
// mutation and its audit events are already durable in the journal; a save
// failure here surfaces so the operator can retry or repair.
func (s *Server) persist(ctx context.Context) error {
	if s.states == nil {
		return nil
	}
	if err := s.states.SaveState(ctx, s.engine.ExportState()); err != nil {
		return fmt.Errorf("save engine state: %w", err)
	}
	return nil
}
