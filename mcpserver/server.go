// Package mcpserver exposes the lookup engine as Model Context Protocol
// tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/frizinak/uiloc/common"
	"github.com/frizinak/uiloc/locale"
	"github.com/frizinak/uiloc/lookup"
	"github.com/frizinak/uiloc/predict"
)

const Name = "uiloc"

type Server struct {
	e      *lookup.Engine
	server *mcp.Server
	log    zerolog.Logger
}

func New(e *lookup.Engine, version string, log zerolog.Logger) *Server {
	s := &Server{
		e:   e,
		log: log,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    Name,
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves on stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Find UI strings in one language whose id or text contains the query. Exact id matches rank first, then text matches, then id substrings.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": str("Text or string id to look for"),
				"lang":  str("Language code of the table to search, e.g. en, ko, ja"),
				"synonyms": {
					Type:        "boolean",
					Description: "Fall back to a synonym search when nothing matches directly",
				},
			},
			Required: []string{"query", "lang"},
		},
	}, s.handleSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        "translations",
		Description: "List every language's text for one string id, widest first.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"id": str("String id")},
			Required:   []string{"id"},
		},
	}, s.handleTranslations)

	s.server.AddTool(&mcp.Tool{
		Name:        "synonyms",
		Description: "Expand the query into related terms and find strings containing any of them.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": str("Text to expand"),
				"lang":  str("Language code of the table to search"),
			},
			Required: []string{"query", "lang"},
		},
	}, s.handleSynonyms)

	s.server.AddTool(&mcp.Tool{
		Name:        "predict",
		Description: "Predict translations of new English UI text into every supported language.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"text": str("English source text")},
			Required:   []string{"text"},
		},
	}, s.handlePredict)

	s.server.AddTool(&mcp.Tool{
		Name:        "abbreviate",
		Description: "Shorten existing translations for tight UI space while keeping their meaning.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"original": str("English source text"),
				"formal": {
					Type:        "array",
					Description: "Current translations",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"lang": str("Language code"),
							"text": str("Translation"),
						},
						Required: []string{"lang", "text"},
					},
				},
				"langs": {
					Type:        "array",
					Description: "Languages to shorten, all of formal when empty",
					Items:       &jsonschema.Schema{Type: "string"},
				},
			},
			Required: []string{"original", "formal"},
		},
	}, s.handleAbbreviate)

	s.server.AddTool(&mcp.Tool{
		Name:        "languages",
		Description: "List loaded languages with string counts and the supported prediction languages.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleLanguages)
}

func jsonResponse(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil
}

// errorResponse reports tool failures inside the result so the client
// model can see them.
func errorResponse(tool string, err error) (*mcp.CallToolResult, error) {
	res, merr := jsonResponse(map[string]any{
		"success": false,
		"tool":    tool,
		"error":   err.Error(),
	})
	if merr != nil {
		return nil, merr
	}
	res.IsError = true
	return res, nil
}

func params(req *mcp.CallToolRequest, v any) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func (s *Server) run(ctx context.Context, tool string, m lookup.Mode) (*mcp.CallToolResult, error) {
	r, err := s.e.Run(ctx, m)
	if err != nil {
		return errorResponse(tool, err)
	}
	return jsonResponse(r)
}

type queryParams struct {
	Query    string `json:"query"`
	Lang     string `json:"lang"`
	Synonyms bool   `json:"synonyms"`
}

func (p queryParams) validate() error {
	return errors.Join(required("query", p.Query), required("lang", p.Lang))
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p queryParams
	if err := params(req, &p); err != nil {
		return errorResponse("search", err)
	}
	if err := p.validate(); err != nil {
		return errorResponse("search", err)
	}
	lang := locale.Canonical(p.Lang)

	r, err := s.e.Run(ctx, lookup.Direct{Text: p.Query, Language: lang})
	if err != nil {
		return errorResponse("search", err)
	}
	if len(r.Hits) == 0 && p.Synonyms {
		return s.run(ctx, "search", lookup.Synonym{Text: p.Query, Language: lang})
	}
	return jsonResponse(r)
}

func (s *Server) handleTranslations(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p struct {
		ID string `json:"id"`
	}
	if err := params(req, &p); err != nil {
		return errorResponse("translations", err)
	}
	if err := required("id", p.ID); err != nil {
		return errorResponse("translations", err)
	}
	return s.run(ctx, "translations", lookup.CrossLanguage{ID: strings.TrimSpace(p.ID)})
}

func (s *Server) handleSynonyms(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p queryParams
	if err := params(req, &p); err != nil {
		return errorResponse("synonyms", err)
	}
	if err := p.validate(); err != nil {
		return errorResponse("synonyms", err)
	}
	return s.run(ctx, "synonyms", lookup.Synonym{Text: p.Query, Language: locale.Canonical(p.Lang)})
}

func (s *Server) handlePredict(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p struct {
		Text string `json:"text"`
	}
	if err := params(req, &p); err != nil {
		return errorResponse("predict", err)
	}
	if err := required("text", p.Text); err != nil {
		return errorResponse("predict", err)
	}
	return s.run(ctx, "predict", lookup.Predict{Text: p.Text})
}

func (s *Server) handleAbbreviate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p struct {
		Original string                `json:"original"`
		Formal   []predict.Translation `json:"formal"`
		Langs    []string              `json:"langs"`
	}
	if err := params(req, &p); err != nil {
		return errorResponse("abbreviate", err)
	}
	if err := required("original", p.Original); err != nil {
		return errorResponse("abbreviate", err)
	}
	if len(p.Formal) == 0 {
		return errorResponse("abbreviate", errors.New("formal is required"))
	}
	for i := range p.Langs {
		p.Langs[i] = locale.Canonical(p.Langs[i])
	}
	if len(p.Langs) == 0 {
		for _, t := range p.Formal {
			p.Langs = append(p.Langs, t.Lang)
		}
	}
	return s.run(ctx, "abbreviate", lookup.Abbreviate{Original: p.Original, Formal: p.Formal, Langs: p.Langs})
}

func (s *Server) handleLanguages(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResponse(common.Languages(s.e.Dict().Snapshot()))
}
