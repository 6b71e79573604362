package inbound

import (
	"context"

	"github.com/mindcarehq/mindcare/internal/catalog/entity"
	"github.com/mindcarehq/mindcare/internal/catalog/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
)

type uc interface {
	ListGuidance(ctx context.Context, in usecase.ListInput) ([]entity.Guidance, error)
	ListMusic(ctx context.Context) ([]entity.Music, error)
	ListBoosters(ctx context.Context) ([]entity.Booster, error)
	ListMeditations(ctx context.Context, in usecase.ListInput) ([]entity.Meditation, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)

	CreateItem(ctx context.Context, in usecase.CreateItemInput) (*usecase.CreateItemOutput, error)
	CreateUpload(ctx context.Context, in usecase.CreateUploadInput) (*usecase.UploadOutput, error)
}

// RegisterHTTPEndpoint mounts the catalog routes. Lists are public; writes
// need the catalog write permission.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/catalog/guidance", end.ListGuidance)
	r.GET("/api/v1/catalog/music", end.ListMusic)
	r.GET("/api/v1/catalog/boosters", end.ListBoosters)
	r.GET("/api/v1/catalog/meditations", end.ListMeditations)
	r.GET("/api/v1/catalog/categories", end.ListCategories)

	r.POST("/api/v1/catalog/items/:kind", end.CreateItem, r.Authorize("catalog", "write"))
	r.POST("/api/v1/catalog/uploads", end.CreateUpload, r.Authorize("catalog", "write"))
}
