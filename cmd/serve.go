package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"kudosimport/internal/bootstrap"
	"kudosimport/internal/bootstrap/logging"
	"kudosimport/internal/domain/kudos"
	"kudosimport/internal/errs"
	"kudosimport/internal/usecase/importer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the project import HTTP endpoint",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *importer.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}

		server := &http.Server{
			Addr:    addr,
			Handler: newImportHandler(ctx, svc),
		}

		logging.Info(ctx, "import server started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "import server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve import endpoint")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (defaults to http.addr from config)")
}

type projectImportService interface {
	ImportProject(context.Context, importer.ImportProjectInput) (importer.ImportProjectResult, error)
}

type importHTTPHandler struct {
	baseCtx context.Context
	svc     projectImportService
}

func newImportHandler(baseCtx context.Context, svc projectImportService) http.Handler {
	h := &importHTTPHandler{
		baseCtx: baseCtx,
		svc:     svc,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Post("/projects/import", h.handleImport)
	return router
}

func (h *importHTTPHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeImportText(w, http.StatusInternalServerError, "import service is not configured")
		return
	}

	ctx := logging.WithAttrs(
		r.Context(),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if h.baseCtx != nil {
		// Keep the command's logger while using the request's cancellation.
		ctx = logging.WithLogger(ctx, logging.Logger(h.baseCtx))
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeImportText(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	input, err := decodeImportRequest(payload)
	if err != nil {
		logging.Warn(ctx, "import request rejected", slog.Any("err", errs.Loggable(err)))
		writeImportText(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.ImportProject(ctx, input)
	if err != nil {
		// Detail is for operators only; the caller gets a generic signal.
		logging.Error(ctx, "import failed", slog.Any("err", errs.Loggable(err)))
		writeImportText(w, importFailureStatus(err), "import failed")
		return
	}

	writeImportText(w, http.StatusOK, fmt.Sprintf("Total issues imported: %d", result.TotalIssuesImported))
}

func importFailureStatus(err error) int {
	var identityErr *kudos.IdentityResolutionError
	if errors.As(err, &identityErr) {
		return http.StatusBadRequest
	}

	var upstreamErr *kudos.UpstreamAPIError
	if errors.As(err, &upstreamErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func writeImportText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintln(w, message)
}
