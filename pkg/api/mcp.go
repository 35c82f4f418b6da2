package api

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hoverdict/dictbuild/pkg/dict"
	"github.com/hoverdict/dictbuild/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the dictionary lookup tools on the server.
func RegisterMCPTools(srv *server.MCPServer, reg *dict.Registry, logger *slog.Logger) {
	for _, t := range MCPTools(MakeEndpoints(reg, logger)) {
		kit.RegisterMCPTool(srv, t)
	}
}

// MCPTools describes the MCP tools backed by eps.
func MCPTools(eps Endpoints) []kit.MCPTool {
	langOpt := mcp.WithString("lang",
		mcp.Description("zh: English to Chinese (default); en: Chinese to English"),
		mcp.Enum(string(dict.LangZH), string(dict.LangEN)),
	)

	return []kit.MCPTool{
		{
			Tool: mcp.NewTool("translate_word",
				mcp.WithDescription("Look up a word in the English-Chinese dictionary."),
				mcp.WithString("word", mcp.Required(), mcp.Description("The word to translate")),
				langOpt,
			),
			Endpoint: eps.Translate,
			Decode:   decodeTranslate("word"),
		},
		{
			Tool: mcp.NewTool("translate_batch",
				mcp.WithDescription(fmt.Sprintf("Look up several words (up to %d) in one call.", MaxBatch)),
				mcp.WithString("words", mcp.Required(), mcp.Description("Comma-separated list of words")),
				langOpt,
			),
			Endpoint: eps.TranslateBatch,
			Decode:   decodeBatch,
		},
		{
			Tool: mcp.NewTool("translate_identifier",
				mcp.WithDescription("Translate a code identifier (camelCase or snake_case) part by part."),
				mcp.WithString("identifier", mcp.Required(), mcp.Description("The identifier, e.g. getUserName")),
				langOpt,
			),
			Endpoint: eps.TranslateIdentifier,
			Decode:   decodeTranslate("identifier"),
		},
		{
			Tool: mcp.NewTool("dictionary_info",
				mcp.WithDescription("Describe the loaded dictionary: path, entry count and build manifest."),
			),
			Endpoint: eps.Info,
		},
	}
}

func decodeTranslate(field string) kit.MCPDecoder {
	return func(args map[string]any) (any, error) {
		q, err := kit.StringArg(args, field, true)
		if err != nil {
			return nil, err
		}
		lang, err := kit.StringArg(args, "lang", false)
		if err != nil {
			return nil, err
		}
		return &translateReq{Query: q, Lang: dict.ParseLang(lang)}, nil
	}
}

func decodeBatch(args map[string]any) (any, error) {
	raw, err := kit.StringArg(args, "words", true)
	if err != nil {
		return nil, err
	}
	lang, err := kit.StringArg(args, "lang", false)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return &batchReq{Words: words, Lang: dict.ParseLang(lang)}, nil
}
