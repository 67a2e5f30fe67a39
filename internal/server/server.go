package server

import (
	"github.com/shinyvision/phpscan/internal/config"
	"github.com/shinyvision/phpscan/internal/php"
	"github.com/shinyvision/phpscan/internal/state"
	"github.com/shinyvision/phpscan/internal/tokens"
	"github.com/shinyvision/phpscan/internal/utils"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

const lsName = "phpscan"

var version = "0.1.0"

// Server is the language server.
type Server struct {
	config *config.Config
	state  *state.State
	h      protocol.Handler
}

// NewServer creates a new server. cfg may be adjusted by the client's
// initialization options.
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	s := &Server{
		config: cfg,
		state:  state.NewState(php.NewDocumentStore(cfg.MaxDocuments)),
	}
	s.h = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidClose:   s.didClose,
		TextDocumentDefinition: s.onDefinition,
		TextDocumentReferences: s.onReferences,
		TextDocumentHover:      s.onHover,
	}
	return s
}

// Run serves the protocol over stdin and stdout until the client exits.
func (s *Server) Run() error {
	server := glspserver.NewServer(&s.h, lsName, false)
	return server.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	logger := commonlog.GetLoggerf("phpscan.server")

	caps := s.h.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
	}
	caps.DefinitionProvider = true
	caps.ReferencesProvider = true
	caps.HoverProvider = true

	if params.RootURI != nil {
		s.config.WorkspaceRoot = utils.UriToPath(*params.RootURI)
	} else if len(params.WorkspaceFolders) > 0 {
		s.config.WorkspaceRoot = utils.UriToPath(params.WorkspaceFolders[0].URI)
	} else {
		s.config.WorkspaceRoot = "."
	}

	if err := s.config.LoadWorkspace(); err != nil {
		logger.Warningf("could not load %s: %v", config.FileName, err)
	}
	if m, ok := params.InitializationOptions.(map[string]any); ok {
		if err := s.config.ApplyInitializationOptions(m); err != nil {
			logger.Warningf("could not apply initialization options: %v", err)
		}
	}
	s.state = state.NewState(php.NewDocumentStore(s.config.MaxDocuments))

	logger.Infof("initialized for %s (syntax diagnostics: %t, promotion hints: %t)",
		s.config.WorkspaceRoot, s.config.Diagnostics.Syntax, s.config.Diagnostics.Promotion)

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error { return nil }
func (s *Server) shutdown(_ *glsp.Context) error                                   { return nil }
func (s *Server) setTrace(_ *glsp.Context, p *protocol.SetTraceParams) error {
	protocol.SetTraceValue(p.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, p *protocol.DidOpenTextDocumentParams) error {
	doc, err := s.state.OpenDocument(p.TextDocument.URI, p.TextDocument.Text)
	if err != nil {
		return err
	}
	s.publishDiagnostics(ctx, p.TextDocument.URI, doc)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, p *protocol.DidChangeTextDocumentParams) error {
	doc, ok := s.state.GetDocument(p.TextDocument.URI)
	if !ok {
		return nil
	}

	var text string
	doc.Read(func(content []byte, _ *tokens.Tokens, _ *php.LineIndex) {
		text = string(content)
	})
	for _, c := range p.ContentChanges {
		switch ch := c.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = ch.Text
		case protocol.TextDocumentContentChangeEvent:
			start := ch.Range.Start.IndexIn(text)
			end := ch.Range.End.IndexIn(text)
			if start >= 0 && end >= start && end <= len(text) {
				text = text[:start] + ch.Text + text[end:]
			}
		}
	}
	if err := doc.Update([]byte(text)); err != nil {
		return err
	}
	s.publishDiagnostics(ctx, p.TextDocument.URI, doc)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, p *protocol.DidCloseTextDocumentParams) error {
	s.state.CloseDocument(p.TextDocument.URI)
	notify(ctx, protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func notify(ctx *glsp.Context, method string, params any) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(method, params)
}
