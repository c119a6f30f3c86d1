package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grazeland/paddock-cli/internal/importer"
	"github.com/grazeland/paddock-cli/internal/kml"
	"github.com/grazeland/paddock-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the paddock HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		imp := importer.New(st, importer.Options{DefaultName: cfg.Import.DefaultName})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, imp, cfg.Server.MaxImportBytes),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter wires the HTTP API.
func newRouter(st store.Store, imp *importer.Importer, maxImportBytes int64) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/kml/import", importHandler(imp, maxImportBytes))
		r.Get("/paddocks", listPaddocksHandler(st))
		r.Get("/paddocks/{id}", getPaddockHandler(st))
		r.Delete("/paddocks/{id}", deletePaddockHandler(st))
	})

	return r
}

// importHandler accepts a KML document either as a multipart "file" field
// or as the raw request body, runs the import pipeline and responds with
// the import summary. Only a malformed document maps to a client error;
// documents that yield nothing still return a summary.
func importHandler(imp *importer.Importer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		data, filename, err := readDocument(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if filename != "" && !strings.EqualFold(filepath.Ext(filename), ".kml") {
			writeError(w, http.StatusBadRequest, "only .kml files allowed")
			return
		}

		summary, err := imp.Run(r.Context(), data)
		if err != nil {
			if eris.Is(err, kml.ErrMalformedDocument) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			zap.L().Error("kml import failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "import failed")
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

// readDocument pulls the KML bytes and, when available, the declared
// filename out of the request.
func readDocument(r *http.Request) ([]byte, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", eris.Wrap(err, "read multipart file")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", eris.Wrap(err, "read multipart body")
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", eris.Wrap(err, "read request body")
	}
	return data, "", nil
}

func listPaddocksHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paddocks, err := st.ListPaddocks(r.Context())
		if err != nil {
			zap.L().Error("list paddocks failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		writeJSON(w, http.StatusOK, paddocks)
	}
}

func getPaddockHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := st.GetPaddock(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "paddock not found")
				return
			}
			zap.L().Error("get paddock failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "get failed")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deletePaddockHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := st.DeletePaddock(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "paddock not found")
				return
			}
			zap.L().Error("delete paddock failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "delete failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
