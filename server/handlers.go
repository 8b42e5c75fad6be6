package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/wudi/qpickit/notes"
	"github.com/wudi/qpickit/qpic"
	"github.com/wudi/qpickit/render"
	"github.com/wudi/qpickit/scripting"
	"github.com/wudi/qpickit/stim"
	"github.com/wudi/qpickit/tikz"
)

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		jsonError(w, http.StatusInternalServerError, "encode response")
	}
}

// statusFor maps pipeline failures to the status codes the original service
// used: bad circuits and toolchain failures are client-visible 400s,
// anything else is a 500.
func statusFor(err error) int {
	var parseErr *qpic.ParseError
	var toolErr *render.ToolError
	var convErr *stim.ConvertError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &toolErr), errors.As(err, &convErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) checkPoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Server is OK!")
}

func (s *Server) stimToQpic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		StimCode string `json:"stimCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StimCode == "" {
		jsonError(w, http.StatusBadRequest, "stimCode is required")
		return
	}
	qpicCode, err := stim.Convert(req.StimCode)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, struct {
		QpicCode string `json:"qpicCode"`
	}{QpicCode: qpicCode})
}

func (s *Server) qpicToSVG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 || !gjson.ValidBytes(body) {
		jsonError(w, http.StatusBadRequest, "No JSON data received")
		return
	}
	doc := gjson.ParseBytes(body)
	qpicCode := doc.Get("qpicCode").String()
	if qpicCode == "" {
		jsonError(w, http.StatusBadRequest, "qpicCode is required")
		return
	}

	req := render.Request{
		Source:  qpicCode,
		Formats: []render.Format{render.FormatTikZ, render.FormatSVG},
	}
	includePDF := doc.Get("options.includePdf").Bool()
	if includePDF {
		req.Formats = append(req.Formats, render.FormatPDF)
	}
	wantPNG := doc.Get("options.format").String() == "png"
	if wantPNG {
		req.Formats = append(req.Formats, render.FormatPNG)
		req.PNGWidth = int(doc.Get("options.pngWidth").Int())
	}

	res, err := s.renderer.Render(r.Context(), req)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}

	resp := map[string]interface{}{
		"svgResult": res.SVG,
		"tikzCode":  res.TikZ,
	}
	if includePDF {
		resp["pdfResult"] = base64.StdEncoding.EncodeToString(res.PDF)
	}
	if wantPNG {
		resp["pngResult"] = base64.StdEncoding.EncodeToString(res.PNG)
	}
	writeJSON(w, resp)
}

func (s *Server) qpicToTikZ(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		QpicCode string `json:"qpicCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QpicCode == "" {
		jsonError(w, http.StatusBadRequest, "qpicCode is required")
		return
	}
	circuit, err := qpic.Parse(req.QpicCode)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, struct {
		TikzCode string `json:"tikzCode"`
	}{TikzCode: tikz.Generate(circuit, tikz.Options{})})
}

func (s *Server) transform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		QpicCode string `json:"qpicCode"`
		Script   string `json:"script"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QpicCode == "" {
		jsonError(w, http.StatusBadRequest, "qpicCode is required")
		return
	}
	if req.Script == "" {
		jsonError(w, http.StatusBadRequest, "script is required")
		return
	}
	circuit, err := qpic.Parse(req.QpicCode)
	if err != nil {
		jsonError(w, statusFor(err), err.Error())
		return
	}

	dom := scripting.NewCircuitDocument(circuit)
	engine := scripting.NewEngine()
	if err := engine.RegisterCircuit(dom); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.scriptTimeout)
	defer cancel()
	if _, err := engine.Execute(ctx, req.Script); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, struct {
		QpicCode string `json:"qpicCode"`
	}{QpicCode: qpic.Format(dom.Circuit())})
}

func (s *Server) notesPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Markdown string `json:"markdown"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Markdown == "" {
		jsonError(w, http.StatusBadRequest, "markdown is required")
		return
	}
	html, err := notes.Render(req.Markdown)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, struct {
		HTML string `json:"html"`
	}{HTML: html})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, struct {
		Version string          `json:"version"`
		Tools   map[string]bool `json:"tools"`
	}{Version: Version, Tools: s.renderer.ToolVersions()})
}
