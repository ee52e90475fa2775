// Package drop turns a dropped uri-list into a snippet of Markdown
// references, copying resources that do not already live beside the
// target document.
package drop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc"

	"github.com/eykd/imgdrop-go/internal/urilist"
)

// Provider handles drops onto documents.
type Provider struct {
	workspace Workspace
	resolver  *Resolver
	markup    Markup
	selector  []string
	logger    *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithMarkup sets the snippet markup.
func WithMarkup(m Markup) Option {
	return func(p *Provider) { p.markup = m }
}

// WithSelector restricts drops to documents whose language is in selector.
// An empty selector accepts every document.
func WithSelector(selector []string) Option {
	return func(p *Provider) { p.selector = selector }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider returns a Provider for ws that resolves resources with r.
func NewProvider(ws Workspace, r *Resolver, opts ...Option) *Provider {
	p := &Provider{
		workspace: ws,
		resolver:  r,
		markup:    Markup{Style: StyleAuto, Caption: CaptionNone},
		selector:  DefaultSelector,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProvideDropEdit resolves the uri-list carried by dt and returns the edit to
// insert at pos in doc. It returns nil, performing no I/O, when the document
// is not eligible, no workspace is open, the transfer holds no usable URIs,
// or ctx is cancelled once the payload has been read. Per-resource failures
// are logged and leave the resource out of the snippet.
func (p *Provider) ProvideDropEdit(ctx context.Context, doc Document, pos Position, dt DataTransfer) *DropEdit {
	log := p.logger.With("document", doc.Path)

	if !matchSelector(p.selector, doc.LanguageID) {
		log.Debug("document language not handled", "language", doc.LanguageID)
		return nil
	}
	if len(p.workspace.Folders()) == 0 {
		log.Debug("no workspace open")
		return nil
	}

	dir, err := canonicalDir(doc.Path)
	if err != nil {
		log.Warn("cannot resolve document directory", "error", err)
		return nil
	}

	item, ok := dt.Get(urilist.MIME)
	if !ok {
		log.Debug("no uri-list in data transfer")
		return nil
	}
	payload, err := item.AsString(ctx)
	if err != nil {
		log.Warn("reading data transfer", "error", err)
		return nil
	}
	if ctx.Err() != nil {
		log.Debug("drop cancelled", "error", ctx.Err())
		return nil
	}

	resources := urilist.Parse(payload)
	if len(resources) == 0 {
		log.Debug("no valid URIs in payload")
		return nil
	}

	// Copies that have started run to completion regardless of cancellation.
	taskCtx := context.WithoutCancel(ctx)
	dc := &dropContext{dir: dir, edit: NewWorkspaceEdit()}

	outcomes := make([]Outcome, len(resources))
	var wg conc.WaitGroup
	for i, res := range resources {
		wg.Go(func() {
			outcomes[i] = p.resolveSafely(taskCtx, dc, res)
		})
	}
	wg.Wait()

	var diags []Diagnostic
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeFailed:
			log.Warn("resource skipped", "uri", o.Resource.String(), "code", o.Code, "error", o.Err)
			diags = append(diags, Diagnostic{Severity: SeverityError, Code: o.Code, Message: o.Err.Error(), URI: o.Resource.String()})
		case OutcomeCopied:
			log.Info("resource copied", "uri", o.Resource.String(), "path", o.Path)
		case OutcomeReferenced:
			log.Debug("resource referenced in place", "uri", o.Resource.String(), "path", o.Path)
		}
	}

	if dc.edit.Len() > 0 {
		applied, err := p.workspace.ApplyEdit(taskCtx, dc.edit)
		switch {
		case err != nil:
			log.Warn("applying edit", "error", err)
			diags = append(diags, Diagnostic{Severity: SeverityWarning, Code: DRP005, Message: err.Error()})
		case !applied:
			log.Warn("workspace declined edit")
			diags = append(diags, Diagnostic{Severity: SeverityWarning, Code: DRP005, Message: "workspace declined edit"})
		}
	}

	if diags == nil {
		diags = []Diagnostic{}
	}
	return &DropEdit{
		Position:       pos,
		InsertText:     Assemble(dir, outcomes, p.markup),
		AdditionalEdit: dc.edit,
		Outcomes:       outcomes,
		Diagnostics:    diags,
	}
}

// resolveSafely runs the resolver and converts a panic into a failed outcome.
func (p *Provider) resolveSafely(ctx context.Context, dc *dropContext, res urilist.Resource) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failed(res, DRP004, fmt.Errorf("resolver panic: %v", r))
		}
	}()
	return p.resolver.resolve(ctx, dc, res)
}
