// Package server implements trifc's --listen mode: a tiny
// compile-as-a-service endpoint exposing the single stateless request a
// compiler needs (no executions to list or cancel, since a compile has no
// running state to poll).
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/trif-lang/trifc/internal/compile"
	"github.com/trif-lang/trifc/internal/diag"
)

type compileRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type compileResponse struct {
	Output string `json:"output"`
}

type httpHandler struct{}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/compile" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	defer r.Body.Close()

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	target, err := compile.ResolveTarget(req.Target)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	output, err := compile.Source(req.Source, target)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resJSON(w, http.StatusOK, compileResponse{Output: output})
}

func (h *httpHandler) writeError(w http.ResponseWriter, status int, err error) {
	var de *diag.Error
	if errors.As(err, &de) {
		resJSON(w, status, de.Exception())
		return
	}
	resJSON(w, status, map[string]any{"message": err.Error()})
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{}
}

// Serve runs the compile HTTP server on listen until ctx is cancelled,
// shutting down gracefully via an errgroup so the listener and the
// shutdown watcher either both exit cleanly or the first error wins.
func Serve(ctx context.Context, listen string) error {
	srv := http.Server{
		Handler: NewHTTPHandler(),
		Addr:    listen,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Listen HTTP on %s", listen)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func resJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("failed to encode response: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		log.Printf("failed to write response: %v", err)
		return
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
