// Package httpapi exposes the save, share, tool and snapshot operations over
// an authenticated JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/savekeeper/internal/logging"
	"github.com/dmitrijs2005/savekeeper/internal/server/authz"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/saves"
	"github.com/dmitrijs2005/savekeeper/internal/server/services"
	"github.com/rs/cors"
)

// Service contracts consumed by the handlers. Declared here so tests can
// substitute fakes.
type saveService interface {
	List(ctx context.Context, actor authz.Actor) ([]*models.Save, error)
	Create(ctx context.Context, actor authz.Actor, in services.CreateSaveInput) (*models.Save, error)
	Get(ctx context.Context, actor authz.Actor, id string) (*models.Save, error)
	SetLock(ctx context.Context, actor authz.Actor, id string, wantLock bool) error
	Edit(ctx context.Context, actor authz.Actor, id string, patch saves.FieldPatch) error
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type shareService interface {
	Grant(ctx context.Context, actor authz.Actor, saveID, userID string, permission int) (*models.ShareGrant, error)
	Accept(ctx context.Context, actor authz.Actor, grantID string) error
	Revoke(ctx context.Context, actor authz.Actor, grantID string) error
	ListForSave(ctx context.Context, actor authz.Actor, saveID string) ([]*models.ShareGrant, error)
}

type toolService interface {
	List(ctx context.Context) ([]*models.Tool, error)
	Create(ctx context.Context, actor authz.Actor, name string) (*models.Tool, error)
}

type snapshotService interface {
	RequestUpload(ctx context.Context, actor authz.Actor, saveID string) (*models.Snapshot, string, error)
	GetDownloadURL(ctx context.Context, actor authz.Actor, snapshotID string) (string, error)
	ListForSave(ctx context.Context, actor authz.Actor, saveID string) ([]*models.Snapshot, error)
}

// Server wires the services to HTTP routes.
type Server struct {
	addr      string
	logger    logging.Logger
	secretKey []byte
	origins   []string

	saves     saveService
	shares    shareService
	tools     toolService
	snapshots snapshotService
}

func NewServer(addr string, logger logging.Logger, secretKey []byte, corsOrigins string,
	sv saveService, sh shareService, tl toolService, sn snapshotService) *Server {

	var origins []string
	for _, o := range strings.Split(corsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Server{
		addr:      addr,
		logger:    logger.With("module", "httpapi"),
		secretKey: secretKey,
		origins:   origins,
		saves:     sv,
		shares:    sh,
		tools:     tl,
		snapshots: sn,
	}
}

// Handler assembles the routed, CORS-wrapped, authenticated handler chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/saves", s.handleListSaves)
	mux.HandleFunc("POST /api/saves", s.handleCreateSave)
	mux.HandleFunc("GET /api/saves/{id}", s.handleGetSave)
	mux.HandleFunc("PATCH /api/saves/{id}", s.handlePatchSave)
	mux.HandleFunc("DELETE /api/saves/{id}", s.handleDeleteSave)

	mux.HandleFunc("GET /api/saves/{id}/shares", s.handleListShares)
	mux.HandleFunc("POST /api/saves/{id}/shares", s.handleGrantShare)
	mux.HandleFunc("POST /api/shares/{id}/accept", s.handleAcceptShare)
	mux.HandleFunc("DELETE /api/shares/{id}", s.handleRevokeShare)

	mux.HandleFunc("GET /api/tools", s.handleListTools)
	mux.HandleFunc("POST /api/tools", s.handleCreateTool)

	mux.HandleFunc("POST /api/saves/{id}/snapshots", s.handleCreateSnapshot)
	mux.HandleFunc("GET /api/saves/{id}/snapshots", s.handleListSnapshots)
	mux.HandleFunc("GET /api/snapshots/{id}/url", s.handleSnapshotURL)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return c.Handler(s.withAuth(mux))
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting http server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
