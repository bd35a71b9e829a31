package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// CategoryUseCase casos de uso para categorías y sus umbrales de stock bajo.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una nueva categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category, nil), nil
}

// List lista las categorías con su umbral configurado.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	thresholds, err := uc.repo.ListThresholds(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]int64, len(thresholds))
	for _, t := range thresholds {
		byCategory[t.CategoryID] = t.Threshold
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		var th *int64
		if v, ok := byCategory[c.ID]; ok {
			th = &v
		}
		out = append(out, *toCategoryResponse(c, th))
	}
	return out, nil
}

// SetThreshold configura el umbral de stock bajo de la categoría.
func (uc *CategoryUseCase) SetThreshold(ctx context.Context, categoryID string, in dto.SetThresholdRequest) (*dto.CategoryResponse, error) {
	if in.Threshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.SetThreshold(ctx, entity.CategoryThreshold{CategoryID: categoryID, Threshold: in.Threshold}); err != nil {
		return nil, err
	}
	th := in.Threshold
	return toCategoryResponse(category, &th), nil
}

func toCategoryResponse(c *entity.Category, threshold *int64) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Threshold: threshold,
		CreatedAt: c.CreatedAt,
	}
}
