package server

import (
	"errors"
	"fmt"

	"github.com/shinyvision/phpscan/internal/php"
	"github.com/shinyvision/phpscan/internal/tokens"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, doc *php.Document) {
	notify(ctx, protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: s.diagnose(doc),
	})
}

// diagnose never returns nil so that clients clear stale entries.
func (s *Server) diagnose(doc *php.Document) []protocol.Diagnostic {
	logger := commonlog.GetLoggerf("phpscan.server")
	diagnostics := []protocol.Diagnostic{}

	var lines *php.LineIndex
	doc.Read(func(_ []byte, _ *tokens.Tokens, l *php.LineIndex) {
		lines = l
	})

	if err := doc.Lint(); err != nil {
		if s.config.Diagnostics.Syntax {
			offset := 0
			var syntaxErr *php.SyntaxError
			if errors.As(err, &syntaxErr) {
				offset = syntaxErr.Offset
			}
			diagnostics = append(diagnostics, newDiagnostic(lines.Range(offset, offset), protocol.DiagnosticSeverityError, err.Error()))
		}
		return diagnostics
	}

	if !s.config.Diagnostics.Promotion {
		return diagnostics
	}
	report, err := doc.Report()
	if err != nil {
		logger.Warningf("could not analyze document: %v", err)
		return diagnostics
	}
	for _, class := range report.Classes {
		if class.Constructor == nil {
			continue
		}
		for _, a := range class.Constructor.Assignments {
			message := fmt.Sprintf("%s can be a promoted constructor property", a.Parameter)
			diagnostics = append(diagnostics, newDiagnostic(lines.Range(a.Start.Offset, a.End.Offset), protocol.DiagnosticSeverityHint, message))
		}
	}
	return diagnostics
}

func newDiagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, message string) protocol.Diagnostic {
	source := lsName
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}
