package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/vk/calcform/internal/render"
)

const maxRenderBody = 1 << 20

// Handler returns the HTTP handler of the calculator server and a function
// that releases its socket.io sessions.
func (a *App) Handler() (http.Handler, func()) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/api/v1/render", a.renderHandler)

	sio := a.newSocketServer()
	mux.Handle("/socket.io/", sio.ServeHandler(nil))

	return mux, func() { sio.Close(nil) }
}

// healthHandler logs the request and reports the server as alive.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// renderHandler renders a fresh session with the posted variables applied.
//
//	POST /api/v1/render
//	{"variables": {"price": 10}, "checkboxes": [{"component": "c", "option": "o", "checked": true}]}
func (a *App) renderHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := a.logger.With("request_id", requestID)
	w.Header().Set("X-Request-Id", requestID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRenderBody))
	if err != nil {
		logger.Warn("Failed to read render request.", "error", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	overrides, boxes, err := parseRenderRequest(body)
	if err != nil {
		logger.Debug("Rejected render request.", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	calc, err := a.session(overrides, boxes)
	if err != nil {
		logger.Debug("Rejected render request.", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := render.JSON(w, calc.Render()); err != nil {
		logger.Error("Failed to write render response.", "error", err)
		return
	}
	logger.Debug("Render request served.", "overrides", len(overrides), "checkboxes", len(boxes))
}

// parseRenderRequest reads the variables and checkbox changes of a render
// request. An empty body renders the defaults.
func parseRenderRequest(body []byte) (Overrides, []CheckboxChange, error) {
	overrides := Overrides{}
	if len(body) == 0 {
		return overrides, nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, nil, errors.New("request body is not valid JSON")
	}

	var err error
	gjson.GetBytes(body, "variables").ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			err = fmt.Errorf("variable %q must be a number", key.String())
			return false
		}
		overrides[key.String()] = value.Float()
		return true
	})
	if err != nil {
		return nil, nil, err
	}

	var boxes []CheckboxChange
	for _, b := range gjson.GetBytes(body, "checkboxes").Array() {
		component, option := b.Get("component"), b.Get("option")
		if component.Type != gjson.String || option.Type != gjson.String {
			return nil, nil, errors.New("checkbox changes need string 'component' and 'option' fields")
		}
		boxes = append(boxes, CheckboxChange{
			Component: component.Str,
			Option:    option.Str,
			Checked:   b.Get("checked").Bool(),
		})
	}
	return overrides, boxes, nil
}

// Serve runs the calculator server on addr until ctx is cancelled.
func (a *App) Serve(ctx context.Context, addr string) error {
	handler, closeSockets := a.Handler()
	defer closeSockets()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🧮 Calculator server starting", "address", addr, "schema", a.model.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("calculator server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("Shutting down calculator server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Calculator server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("Calculator server shut down gracefully.")
	return nil
}
