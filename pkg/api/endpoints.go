package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hoverdict/dictbuild/pkg/dict"
	"github.com/hoverdict/dictbuild/pkg/kit"
)

// MaxBatch is the largest number of words accepted by one batch lookup.
const MaxBatch = 100

var errEmptyQuery = errors.New("query is empty")

// Shared request/response types used by both HTTP and MCP transports.

type translateReq struct {
	Query string
	Lang  dict.Lang
}

type batchReq struct {
	Words []string
	Lang  dict.Lang
}

type batchResponse struct {
	Results []*dict.TranslateResult `json:"results"`
}

// Endpoints are the lookups served by the preview API.
type Endpoints struct {
	Translate           kit.Endpoint
	TranslateBatch      kit.Endpoint
	TranslateIdentifier kit.Endpoint
	Info                kit.Endpoint
}

// MakeEndpoints builds the endpoints backed by reg, each wrapped with request
// ids and logging.
func MakeEndpoints(reg *dict.Registry, logger *slog.Logger) Endpoints {
	if logger == nil {
		logger = slog.Default()
	}
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.Logging(logger, name))(ep)
	}
	return Endpoints{
		Translate:           wrap("translate", translateEndpoint(reg)),
		TranslateBatch:      wrap("translate_batch", translateBatchEndpoint(reg)),
		TranslateIdentifier: wrap("translate_identifier", identifierEndpoint(reg)),
		Info:                wrap("info", infoEndpoint(reg)),
	}
}

func translateEndpoint(reg *dict.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*translateReq)
		if strings.TrimSpace(req.Query) == "" {
			return nil, errEmptyQuery
		}
		return reg.Translate(req.Query, req.Lang), nil
	}
}

func translateBatchEndpoint(reg *dict.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*batchReq)
		if len(req.Words) == 0 {
			return nil, fmt.Errorf("words array is empty")
		}
		if len(req.Words) > MaxBatch {
			return nil, fmt.Errorf("too many words (max %d, got %d)", MaxBatch, len(req.Words))
		}
		results := make([]*dict.TranslateResult, len(req.Words))
		for i, w := range req.Words {
			results[i] = reg.Translate(w, req.Lang)
		}
		return batchResponse{Results: results}, nil
	}
}

func identifierEndpoint(reg *dict.Registry) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*translateReq)
		if strings.TrimSpace(req.Query) == "" {
			return nil, errEmptyQuery
		}
		return reg.TranslateIdentifier(req.Query, req.Lang), nil
	}
}

func infoEndpoint(reg *dict.Registry) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return reg.Info(), nil
	}
}
