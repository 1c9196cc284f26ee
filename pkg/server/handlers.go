package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	pricegen "github.com/goliatone/go-pricegen"
	"github.com/goliatone/go-pricegen/pkg/drag"
	"github.com/goliatone/go-pricegen/pkg/forms"
	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/predict"
	"github.com/goliatone/go-pricegen/pkg/render"
	"github.com/goliatone/go-pricegen/pkg/renderers/vanilla"
)

const maxBodyBytes = 64 << 10

var retrainAction = render.Action{Name: "retrain", Label: "Retrain"}

type fieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fieldResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type trainingResponse struct {
	Ack   string `json:"ack,omitempty"`
	Error string `json:"error,omitempty"`
}

type predictionResponse struct {
	Name        string                    `json:"name,omitempty"`
	Value       *float64                  `json:"value,omitempty"`
	Attempted   bool                      `json:"attempted"`
	Stale       bool                      `json:"stale,omitempty"`
	Result      *predict.PredictionResult `json:"result,omitempty"`
	FieldErrors model.FieldErrors         `json:"field_errors,omitempty"`
	Error       string                    `json:"error,omitempty"`
	HTML        string                    `json:"html"`
}

type panelRequest struct {
	Event   string     `json:"event"`
	Box     *drag.Box  `json:"box,omitempty"`
	Pointer drag.Point `json:"pointer"`
	TopLeft drag.Point `json:"top_left"`
}

type panelResponse struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Mounted  bool    `json:"mounted"`
	Dragging bool    `json:"dragging"`
}

type sessionHandler func(http.ResponseWriter, *http.Request, *session)

// withSession resolves the caller's session and makes sure both forms are
// loaded before h runs.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessionFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if err := sess.load(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions.get(cookie.Value); ok {
			return sess, nil
		}
	}
	baseURL, err := s.baseURL(r)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.create(baseURL)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// baseURL is the configured API URL or the one derived from the request
// origin.
func (s *Server) baseURL(r *http.Request) (string, error) {
	if s.cfg.apiURL != "" {
		return strings.TrimRight(s.cfg.apiURL, "/"), nil
	}
	return predict.ResolveBaseURL(requestOrigin(r))
}

func requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
		return origin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFor(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	loadErr := sess.load(r.Context())

	page, err := s.renderPage(r.Context(), sess, loadErr)
	if err != nil {
		s.logger.Error("render page failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(page)
}

func (s *Server) renderPage(ctx context.Context, sess *session, loadErr error) ([]byte, error) {
	trainingForm, trainingOpts := trainingView(sess, loadErr)
	predictionForm, predictionOpts := predictionView(sess)

	trainingHTML, err := s.renderer.Render(ctx, trainingForm, trainingOpts)
	if err != nil {
		return nil, err
	}
	predictionHTML, err := s.renderer.Render(ctx, predictionForm, predictionOpts)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPage(vanilla.Page{
		Forms:         [][]byte{trainingHTML, predictionHTML},
		StylesheetURL: "/assets/" + vanilla.StylesheetName,
		RuntimeURL:    "/runtime/" + pricegen.RuntimeScriptName,
	})
}

func trainingView(sess *session, loadErr error) (model.FormModel, render.RenderOptions) {
	training := sess.training.Snapshot()
	opts := render.RenderOptions{
		Values:  training.Data,
		Loading: training.State == forms.StateLoading,
		Actions: []render.Action{retrainAction},
	}
	if training.Notice != nil {
		opts.Notice = &render.Notice{Kind: string(training.Notice.Kind), Message: training.Notice.Message}
	}
	form := training.Form
	if opts.Loading {
		form = placeholder(model.TrainingFormSpec())
		if loadErr != nil {
			opts.Notice = &render.Notice{Kind: string(forms.NoticeError), Message: loadErr.Error()}
		}
	}
	return form, opts
}

func predictionView(sess *session) (model.FormModel, render.RenderOptions) {
	prediction := sess.prediction.Snapshot()
	opts := render.RenderOptions{
		Values:  prediction.Data,
		Errors:  prediction.FieldErrors,
		Loading: prediction.State == forms.StateLoading,
		Result:  resultView(prediction.Result, prediction.Panel),
	}
	form := prediction.Form
	if opts.Loading {
		form = placeholder(model.PredictionFormSpec())
	}
	return form, opts
}

// handleFormState renders one form's current state in the representation the
// Accept header asks for, HTML by default.
func (s *Server) handleFormState(id string) sessionHandler {
	return func(w http.ResponseWriter, r *http.Request, sess *session) {
		loadErr := sess.load(r.Context())

		var (
			form model.FormModel
			opts render.RenderOptions
		)
		if id == model.FormTraining {
			form, opts = trainingView(sess, loadErr)
		} else {
			form, opts = predictionView(sess)
		}

		renderer, err := s.registry.ForContentType(r.Header.Get("Accept"))
		if err != nil {
			writeError(w, http.StatusNotAcceptable, err)
			return
		}
		out, err := renderer.Render(r.Context(), form, opts)
		if err != nil {
			s.logger.Error("render form failed", zap.String("form", id), zap.String("renderer", renderer.Name()), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", renderer.ContentType())
		_, _ = w.Write(out)
	}
}

func placeholder(spec model.FormSpec) model.FormModel {
	return model.FormModel{
		ID:          spec.ID,
		Title:       spec.Title,
		Endpoint:    spec.Endpoint,
		SubmitLabel: spec.SubmitLabel,
	}
}

func resultView(result *predict.PredictionResult, pos drag.Point) *render.Result {
	if result == nil {
		return nil
	}
	return &render.Result{
		LinearRegression: result.LinearRegression,
		XGBoost:          result.XGBoost,
		MLP:              result.MLP,
		X:                pos.X,
		Y:                pos.Y,
	}
}

func (s *Server) handleTrainingField(w http.ResponseWriter, r *http.Request, sess *session) {
	var req fieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	value, err := sess.training.Edit(req.Name, req.Value)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, fieldResponse{Name: req.Name, Value: value})
}

// handleTrainingSubmit inserts the current row. Plain form posts carry the
// field values and are redirected back to the page afterwards.
func (s *Server) handleTrainingSubmit(w http.ResponseWriter, r *http.Request, sess *session) {
	values, err := postedValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	for name, raw := range values {
		if _, err := sess.training.Edit(name, raw); err != nil && !errors.Is(err, forms.ErrUnknownField) {
			writeError(w, statusFor(err), err)
			return
		}
	}

	ack, err := sess.training.Submit(r.Context())
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		status := statusFor(err)
		writeJSON(w, status, trainingResponse{Error: render.SanitizeText(err.Error())})
		return
	}
	writeJSON(w, http.StatusOK, trainingResponse{Ack: ack})
}

func (s *Server) handleTrainingRetrain(w http.ResponseWriter, r *http.Request, sess *session) {
	if _, err := sess.training.Retrain(r.Context()); err != nil {
		sess.logger.Error("retrain failed", zap.Error(err))
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handlePredictionField(w http.ResponseWriter, r *http.Request, sess *session) {
	var req fieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := sess.prediction.Edit(r.Context(), req.Name, req.Value)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.writePrediction(w, sess, out, req.Name)
}

func (s *Server) handlePredictionSubmit(w http.ResponseWriter, r *http.Request, sess *session) {
	values, err := postedValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	for name := range values {
		if !model.PredictionFormSpec().Allows(name) {
			delete(values, name)
		}
	}

	var out forms.Outcome
	if len(values) > 0 {
		out, err = sess.prediction.Apply(r.Context(), values)
	} else {
		out, err = sess.prediction.Submit(r.Context())
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.writePrediction(w, sess, out, "")
}

func (s *Server) handlePredictionClose(w http.ResponseWriter, r *http.Request, sess *session) {
	sess.prediction.CloseResult()
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request, sess *session) {
	var req panelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	panel := sess.prediction.Panel()
	switch req.Event {
	case "mount":
		if req.Box == nil {
			writeError(w, http.StatusBadRequest, errors.New("server: mount needs a box"))
			return
		}
		panel.Mount(*req.Box)
	case "press":
		panel.Press(req.Pointer, req.TopLeft)
	case "move":
		sess.viewport.Dispatch(drag.Event{Kind: drag.EventMove, Pointer: req.Pointer})
	case "release":
		sess.viewport.Dispatch(drag.Event{Kind: drag.EventUp, Pointer: req.Pointer})
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("server: unknown panel event %q", req.Event))
		return
	}
	pos := panel.Position()
	writeJSON(w, http.StatusOK, panelResponse{
		X:        pos.X,
		Y:        pos.Y,
		Mounted:  panel.Mounted(),
		Dragging: panel.Dragging(),
	})
}

func (s *Server) writePrediction(w http.ResponseWriter, sess *session, out forms.Outcome, name string) {
	snap := sess.prediction.Snapshot()
	resp := predictionResponse{
		Name:        name,
		Attempted:   out.Attempted,
		Stale:       out.Stale,
		Result:      out.Result,
		FieldErrors: out.FieldErrors,
	}
	if name != "" {
		value := snap.Data[name]
		resp.Value = &value
	}
	if out.Result != nil {
		html, err := s.renderer.RenderResult(resultView(out.Result, snap.Panel))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.HTML = string(html)
	}
	status := http.StatusOK
	if out.Err != nil {
		resp.Error = render.SanitizeText(out.Err.Error())
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, forms.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, forms.ErrNotReady):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// postedValues returns the url-encoded form fields of r, or nil for JSON and
// empty bodies.
func postedValues(r *http.Request) (map[string]string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return nil, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("server: parse form: %w", err)
	}
	values := make(map[string]string, len(r.PostForm))
	for name := range r.PostForm {
		values[name] = r.PostForm.Get(name)
	}
	return values, nil
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("server: decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": render.SanitizeText(err.Error())})
}
