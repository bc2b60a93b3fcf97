package marserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/http/mapper"
	catalogapp "github.com/Fedi-Riahi/mar/internal/domains/catalog/application"
	catalogports "github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"
	apierrors "github.com/Fedi-Riahi/mar/internal/shared/errors"
)

// ProductAPI wires HTTP transport with the catalog bounded context service.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /v1/products
// Lists published listings, newest first
func (api *ProductAPI) ListProducts(c *gin.Context) {
	result, err := api.service.List(c.Request.Context())
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjections(result))
}

// Get /v1/products/:productId
// Find a listing by ID
func (api *ProductAPI) GetProductById(c *gin.Context) {
	id := c.Param("productId")
	product, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Post /v1/products
// Publish a new listing; images arrive as multipart parts
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	price, ok := parseFloatForm(c, "price")
	if !ok {
		return
	}
	stock, ok := parseIntForm(c, "stock")
	if !ok {
		return
	}
	images, closeImages, ok := collectImages(c)
	if !ok {
		return
	}
	defer closeImages()
	input := catalogports.CreateProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Stock:       stock,
		Category:    c.PostForm("category"),
		Images:      images,
	}
	saved, err := api.service.Create(c.Request.Context(), callerFrom(c), input)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, producthttpmapper.FromProjection(saved))
}

// Put /v1/products/:productId
// Update an existing listing; absent fields stay untouched
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id := c.Param("productId")
	input := catalogports.UpdateProductInput{}
	if value, present := c.GetPostForm("name"); present {
		input.Name = &value
	}
	if value, present := c.GetPostForm("description"); present {
		input.Description = &value
	}
	if raw, present := c.GetPostForm("price"); present {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondProblem(c, apierrors.ErrBadRequest.WithDetail("price must be a number"))
			return
		}
		input.Price = &price
	}
	if raw, present := c.GetPostForm("stock"); present {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			respondProblem(c, apierrors.ErrBadRequest.WithDetail("stock must be an integer"))
			return
		}
		input.Stock = &stock
	}
	if value, present := c.GetPostForm("category"); present {
		input.Category = &value
	}
	images, closeImages, ok := collectImages(c)
	if !ok {
		return
	}
	defer closeImages()
	input.Images = images
	updated, err := api.service.Update(c.Request.Context(), callerFrom(c), id, input)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(updated))
}

// Delete /v1/products/:productId
// Remove a listing
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id := c.Param("productId")
	if err := api.service.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// collectImages reads the multipart "images" parts. The returned closer
// releases the open part readers once the upload has been consumed.
func collectImages(c *gin.Context) ([]catalogports.ImageUpload, func(), bool) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, true
		}
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return nil, noop, false
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		return nil, noop, true
	}
	uploads := make([]catalogports.ImageUpload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, file := range files {
			_ = file.Close()
		}
	}
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll()
			respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
			return nil, noop, false
		}
		files = append(files, file)
		uploads = append(uploads, catalogports.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		})
	}
	return uploads, closeAll, true
}

func parseFloatForm(c *gin.Context, field string) (float64, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(field+" must be a number"))
		return 0, false
	}
	return value, true
}

func parseIntForm(c *gin.Context, field string) (int, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(field+" must be an integer"))
		return 0, false
	}
	return value, true
}

func respondProductServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if respondAuthError(c, err) {
		return
	}
	if errors.Is(err, catalogports.ErrNotFound) {
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
		return
	}
	if errors.Is(err, catalogapp.ErrInvalidInput) {
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
}
