package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoverdict/dictbuild/pkg/dict"
	"github.com/hoverdict/dictbuild/pkg/kit"
)

// NewRouter returns an http.Handler with all preview API routes.
func NewRouter(reg *dict.Registry, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h := &handler{eps: MakeEndpoints(reg, logger), reg: reg}

	mux.HandleFunc("GET /v1/translate/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/translate/batch", h.handleTranslateBatch)
	mux.HandleFunc("GET /v1/translate/{word}", h.handleTranslate)
	mux.HandleFunc("GET /v1/identifier/{ident}", h.handleIdentifier)
	mux.HandleFunc("GET /v1/dictionary", h.handleInfo)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	eps Endpoints
	reg *dict.Registry
}

// --- single word ---

func (h *handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.Translate(kit.WithTransport(r.Context(), "http"), &translateReq{
		Query: r.PathValue("word"),
		Lang:  dict.ParseLang(r.URL.Query().Get("lang")),
	})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- batch ---

type httpBatchRequest struct {
	Words []string `json:"words"`
	Lang  string   `json:"lang,omitempty"`
}

func (h *handler) handleTranslateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.eps.TranslateBatch(kit.WithTransport(r.Context(), "http"), &batchReq{
		Words: req.Words,
		Lang:  dict.ParseLang(req.Lang),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- identifier ---

func (h *handler) handleIdentifier(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.TranslateIdentifier(kit.WithTransport(r.Context(), "http"), &translateReq{
		Query: r.PathValue("ident"),
		Lang:  dict.ParseLang(r.URL.Query().Get("lang")),
	})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- dictionary info ---

func (h *handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.Info(kit.WithTransport(r.Context(), "http"), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Entries: h.reg.Len()})
}

// --- helpers ---

func writeEndpointError(w http.ResponseWriter, err error) {
	if errors.Is(err, errEmptyQuery) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
