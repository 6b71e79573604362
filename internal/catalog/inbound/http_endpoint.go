package inbound

import (
	"github.com/mindcarehq/mindcare/internal/catalog/entity"
	"github.com/mindcarehq/mindcare/internal/catalog/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
	"github.com/mindcarehq/mindcare/internal/pkg/valueobject"
)

type HTTPEndpoint struct {
	uc uc
}

func listInput(r *router.Request) (usecase.ListInput, error) {
	featured, err := r.GetQueryBool("featured")
	if err != nil {
		return usecase.ListInput{}, err
	}
	return usecase.ListInput{Category: r.GetQuery("category"), Featured: featured}, nil
}

// ListGuidance lists guidance items.
// @Summary List guidance
// @Description Returns guidance items, optionally filtered by category and featured flag.
// @Tags Catalog
// @Produce json
// @Param category query string false "Category name"
// @Param featured query bool false "Only featured items"
// @Success 200 {object} router.successResponse{data=[]GuidanceResponse} "Guidance items"
// @Failure 400 {object} router.errorResponse "Invalid query"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/catalog/guidance [get]
func (h *HTTPEndpoint) ListGuidance(r *router.Request) (any, error) {
	in, err := listInput(r)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ListGuidance(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newGuidanceResponse), nil
}

// ListMusic lists music tracks.
// @Summary List music
// @Description Returns every music track.
// @Tags Catalog
// @Produce json
// @Success 200 {object} router.successResponse{data=[]MusicResponse} "Music tracks"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/catalog/music [get]
func (h *HTTPEndpoint) ListMusic(r *router.Request) (any, error) {
	resp, err := h.uc.ListMusic(r.Context())
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newMusicResponse), nil
}

// ListBoosters lists mood boosters.
// @Summary List boosters
// @Description Returns every mood booster.
// @Tags Catalog
// @Produce json
// @Success 200 {object} router.successResponse{data=[]BoosterResponse} "Boosters"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/catalog/boosters [get]
func (h *HTTPEndpoint) ListBoosters(r *router.Request) (any, error) {
	resp, err := h.uc.ListBoosters(r.Context())
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newBoosterResponse), nil
}

// ListMeditations lists meditations.
// @Summary List meditations
// @Description Returns meditations, optionally filtered by category and featured flag.
// @Tags Catalog
// @Produce json
// @Param category query string false "Category name"
// @Param featured query bool false "Only featured items"
// @Success 200 {object} router.successResponse{data=[]MeditationResponse} "Meditations"
// @Failure 400 {object} router.errorResponse "Invalid query"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/catalog/meditations [get]
func (h *HTTPEndpoint) ListMeditations(r *router.Request) (any, error) {
	in, err := listInput(r)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ListMeditations(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newMeditationResponse), nil
}

// ListCategories lists categories grouped by kind.
// @Summary List categories
// @Description Returns the catalog categories grouped by item kind.
// @Tags Catalog
// @Produce json
// @Success 200 {object} router.successResponse{data=CategoriesResponse} "Categories"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/catalog/categories [get]
func (h *HTTPEndpoint) ListCategories(r *router.Request) (any, error) {
	resp, err := h.uc.ListCategories(r.Context())
	if err != nil {
		return nil, err
	}

	return newCategoriesResponse(resp), nil
}

// CreateItem takes the item fields of :kind as the whole body.
// @Summary Create catalog item
// @Description Creates a guidance, music, booster or meditation item. Media keys must point at uploaded objects.
// @Tags Catalog, Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Item kind" Enums(guidance, music, booster, meditation)
// @Param request body object true "Item fields for kind"
// @Success 201 {object} router.successResponse{data=ItemCreatedResponse} "Item created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 409 {object} router.errorResponse "Item already exists"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/catalog/items/{kind} [post]
func (h *HTTPEndpoint) CreateItem(r *router.Request) (any, error) {
	var payload valueobject.JSONMap
	if err := r.DecodeBody(&payload); err != nil {
		return nil, err
	}

	resp, err := h.uc.CreateItem(r.Context(), usecase.CreateItemInput{Kind: r.GetParam("kind"), Payload: payload})
	if err != nil {
		return nil, err
	}

	var item any
	switch v := resp.Item.(type) {
	case *entity.Guidance:
		item = newGuidanceResponse(*v)
	case *entity.Music:
		item = newMusicResponse(*v)
	case *entity.Booster:
		item = newBoosterResponse(*v)
	case *entity.Meditation:
		item = newMeditationResponse(*v)
	}

	return ItemCreatedResponse{Kind: resp.Kind.String(), Item: item}, nil
}

// CreateUpload returns a presigned URL for a media upload.
// @Summary Create media upload
// @Description Returns a presigned PUT URL for a catalog media object.
// @Tags Catalog, Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUploadRequest true "Upload payload"
// @Success 201 {object} router.successResponse{data=UploadResponse} "Presigned upload"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/catalog/uploads [post]
func (h *HTTPEndpoint) CreateUpload(r *router.Request) (any, error) {
	var req CreateUploadRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CreateUpload(r.Context(), usecase.CreateUploadInput{
		Kind:        req.Kind,
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		return nil, err
	}

	return UploadResponse{Key: resp.Key, URL: resp.URL, Method: resp.Method, ExpiresAt: resp.ExpiresAt}, nil
}
