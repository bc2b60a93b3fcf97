package application

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/memory"
	"github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

var (
	shopper = auth.Caller{UserID: "user-1", Email: "shopper@example.com", Role: auth.RoleUser}
	curator = auth.Caller{UserID: "admin-1", Email: "curator@example.com", Role: auth.RoleAdmin}
)

// fakeMediaStore records uploads and hands back deterministic URLs.
type fakeMediaStore struct {
	objects []string
}

func (f *fakeMediaStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.objects = append(f.objects, objectName)
	return "https://media.test/" + objectName, nil
}

func validInput() ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:     "Olive Wood Bowl",
		Price:    49.5,
		Stock:    7,
		Category: "kitchen",
	}
}

func TestCreate_AdminOnly(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.Create(context.Background(), auth.Caller{}, validInput())
	require.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = svc.Create(context.Background(), shopper, validInput())
	require.ErrorIs(t, err, auth.ErrForbidden)

	created, err := svc.Create(context.Background(), curator, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.Entity.ID)
	assert.Equal(t, curator.UserID, created.Entity.OwnerID)
}

func TestCreate_ValidatesAggregate(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	input := validInput()
	input.Name = "  "
	_, err := svc.Create(context.Background(), curator, input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)

	input = validInput()
	input.Price = 0
	_, err = svc.Create(context.Background(), curator, input)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	input = validInput()
	input.Stock = -1
	_, err = svc.Create(context.Background(), curator, input)
	require.ErrorIs(t, err, domain.ErrInvalidStock)
}

func TestCreate_StoresImages(t *testing.T) {
	media := &fakeMediaStore{}
	svc := NewService(catalogmemory.NewRepository(), WithMediaStore(media))

	input := validInput()
	input.Images = []ports.ImageUpload{
		{Filename: "bowl.png", ContentType: "image/png", Size: 4, Reader: strings.NewReader("data")},
		{Filename: "bowl-side.jpg", ContentType: "image/jpeg", Size: 4, Reader: strings.NewReader("data")},
	}

	created, err := svc.Create(context.Background(), curator, input)
	require.NoError(t, err)
	require.Len(t, created.Entity.Pictures, 2)
	assert.True(t, strings.HasPrefix(created.Entity.Pictures[0], "https://media.test/products/"))
	assert.True(t, strings.HasSuffix(media.objects[0], ".png"))
	assert.True(t, strings.HasSuffix(media.objects[1], ".jpg"))
}

func TestCreate_ImagesWithoutMediaStore(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	input := validInput()
	input.Images = []ports.ImageUpload{{Filename: "bowl.png", Reader: strings.NewReader("data")}}
	_, err := svc.Create(context.Background(), curator, input)
	require.Error(t, err)
}

func TestUpdate_AppliesPartialMutation(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	created, err := svc.Create(context.Background(), curator, validInput())
	require.NoError(t, err)

	newPrice := 59.0
	updated, err := svc.Update(context.Background(), curator, created.Entity.ID, ports.UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)
	assert.InDelta(t, 59.0, updated.Entity.Price, 1e-9)
	assert.Equal(t, created.Entity.Name, updated.Entity.Name)
	assert.Equal(t, created.Entity.Stock, updated.Entity.Stock)

	badPrice := -1.0
	_, err = svc.Update(context.Background(), curator, created.Entity.ID, ports.UpdateProductInput{Price: &badPrice})
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Update(context.Background(), curator, "missing", ports.UpdateProductInput{Price: &newPrice})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListAndGet_ArePublic(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	created, err := svc.Create(context.Background(), curator, validInput())
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	fetched, err := svc.GetByID(context.Background(), created.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Entity.ID, fetched.Entity.ID)

	_, err = svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete_AdminOnly(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	created, err := svc.Create(context.Background(), curator, validInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), shopper, created.Entity.ID), auth.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), curator, created.Entity.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), curator, created.Entity.ID), ports.ErrNotFound)
}
