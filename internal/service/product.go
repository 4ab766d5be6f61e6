package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"storefront-api/internal/apperr"
	"storefront-api/internal/client"
	"storefront-api/internal/dto"
	"storefront-api/internal/logger"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const maxProductImages = 4

type ProductService interface {
	Add(ctx context.Context, req dto.AddProductRequest) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	Remove(ctx context.Context, productID string) (*model.Product, error)
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
	images      client.ImageStore
	validate    *validator.Validate
}

func NewProductService(
	productRepo repository.ProductRepository,
	images client.ImageStore,
) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
		images:      images,
		validate:    newValidator(),
	}
}

func (s *productServiceImpl) Add(ctx context.Context, req dto.AddProductRequest) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	req.SubCategory = strings.TrimSpace(req.SubCategory)

	if math.IsInf(req.Price, 0) || math.IsNaN(req.Price) {
		return nil, apperr.Validation("price must be a finite number")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if len(req.Images) == 0 {
		return nil, apperr.Validation("At least one image is required")
	}
	if len(req.Images) > maxProductImages {
		return nil, apperr.Validation(fmt.Sprintf("At most %d images are allowed", maxProductImages))
	}

	urls, err := s.upload(ctx, req.Images)
	if err != nil {
		return nil, apperr.Internal("Image upload failed", err)
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Sizes:       model.StringList(req.Sizes),
		Images:      urls,
		BestSeller:  req.BestSeller,
		Featured:    req.Featured,
		NewArrival:  req.NewArrival,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperr.Internal("Failed to save product", err)
	}

	logger.FromContext(ctx).Info("product added",
		zap.String("product_id", product.ID),
		zap.Int("images", len(urls)),
	)
	return product, nil
}

// upload sends every image concurrently and keeps the URLs in input order.
func (s *productServiceImpl) upload(ctx context.Context, files []dto.UploadFile) (model.StringList, error) {
	urls := make(model.StringList, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			r, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %s: %w", f.Filename, err)
			}
			defer r.Close()

			url, err := s.images.Upload(gctx, f.Filename, r)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

func (s *productServiceImpl) List(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to list products", err)
	}
	return products, nil
}

func parseProductID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", apperr.Validation("Invalid product id")
	}
	return parsed.String(), nil
}

func (s *productServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load product", err)
	}
	return product, nil
}

func (s *productServiceImpl) Remove(ctx context.Context, productID string) (*model.Product, error) {
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to remove product", err)
	}

	logger.FromContext(ctx).Info("product removed", zap.String("product_id", id))
	return product, nil
}
