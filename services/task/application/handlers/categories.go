package handlers

import (
	"net/http"

	"github.com/mindflow/backend/pkg/errhttp"
	"github.com/mindflow/backend/pkg/httpx"
	pkgvalidator "github.com/mindflow/backend/pkg/validator"
	appsvcs "github.com/mindflow/backend/services/task/application/services"
)

// CreateCategoryRequest is the request body for POST /api/categories.
type CreateCategoryRequest struct {
	Name         string `json:"name"          validate:"required,max=100"                              example:"Work"`
	Description  string `json:"description"   validate:"max=1000"`
	Color        string `json:"color"         validate:"omitempty,color6"                              example:"#3B82F6"`
	Icon         string `json:"icon"          validate:"max=50"                                        example:"briefcase"`
	CategoryType string `json:"category_type" validate:"omitempty,oneof=project area goal context"     example:"project"`
	SortOrder    int    `json:"sort_order"    validate:"gte=0"`
} // @name CreateCategoryRequest

// CreateCategoryHandler handles POST /api/categories.
type CreateCategoryHandler struct {
	svc CategoryUseCases
}

// NewCreateCategoryHandler returns a CreateCategoryHandler backed by svc.
func NewCreateCategoryHandler(svc CategoryUseCases) *CreateCategoryHandler {
	return &CreateCategoryHandler{svc: svc}
}

// Execute creates a category.
//
//	@Summary	Create category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateCategoryRequest	true	"Category creation request"
//	@Success	201		{object}	CategoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"name already used"
//	@Failure	422		{object}	ErrorResponse
//	@Router		/api/categories [post]
func (h *CreateCategoryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CreateCategoryRequest](w, r)
	if !ok {
		return
	}

	c, err := h.svc.Create(r.Context(), ownerID, appsvcs.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Type:        req.CategoryType,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCategoryResponse(c))
}

// ListCategoriesHandler handles GET /api/categories.
type ListCategoriesHandler struct {
	svc CategoryUseCases
}

// NewListCategoriesHandler returns a ListCategoriesHandler backed by svc.
func NewListCategoriesHandler(svc CategoryUseCases) *ListCategoriesHandler {
	return &ListCategoriesHandler{svc: svc}
}

// Execute lists the owner's active categories.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}		CategoryResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/categories [get]
func (h *ListCategoriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	cs, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]CategoryResponse, len(cs))
	for i, c := range cs {
		out[i] = toCategoryResponse(c)
	}
	httpx.JSON(w, http.StatusOK, out)
}
