package modelstesting

import (
	"math/rand"
	"time"

	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FakeProduct returns models.Product with fake data and random number of fake variants.
func FakeProduct(ops ...func(p *models.Product)) models.Product {
	createdAt := time.Now().UTC().Add(-time.Duration(rand.Intn(1000)+1) * time.Hour).Truncate(time.Second)

	product := models.Product{
		ID:          faker.UUIDHyphenated(),
		Name:        faker.Word(),
		Slug:        faker.Word() + "-" + faker.UUIDDigit(),
		Description: faker.Sentence(),
		Price:       fakePrice(),
		Category:    faker.Word(),
		Images:      fakeImageURLs(),
		Variants:    fakeVariants(),
		Tags:        []string{faker.Word(), faker.Word()},
		InStock:     true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt.Add(time.Hour),
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeVariant returns models.Variant with fake data.
func FakeVariant(ops ...func(v *models.Variant)) models.Variant {
	variant := models.Variant{
		ID:       faker.UUIDHyphenated(),
		Color:    faker.Word(),
		ColorHex: lo.ToPtr("#" + faker.Word()),
		Size:     lo.ToPtr(faker.Word()),
		Price:    fakePrice(),
		Stock:    rand.Intn(100),
		Images:   fakeImageURLs(),
	}

	for _, op := range ops {
		op(&variant)
	}

	return variant
}

// FakeLocalProduct returns models.LocalProduct with fake data.
func FakeLocalProduct(ops ...func(p *models.LocalProduct)) models.LocalProduct {
	product := FakeProduct()
	local := models.LocalProduct{
		ID:          rand.Intn(100000) + 1,
		Slug:        product.Slug,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Images:      product.Images,
		Colors:      []string{faker.Word()},
		Variants:    product.Variants,
		Tags:        product.Tags,
		InStock:     product.InStock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
		SyncedAt:    product.UpdatedAt,
	}

	for _, op := range ops {
		op(&local)
	}

	return local
}

func fakePrice() decimal.Decimal {
	return decimal.New(rand.Int63n(100000), -2)
}

func fakeImageURLs() []string {
	imagesLen := rand.Intn(3) + 1
	images := make([]string, 0, imagesLen)
	for i := 0; i < imagesLen; i++ {
		images = append(images, "https://"+faker.DomainName()+"/"+faker.Word()+".jpg")
	}

	return images
}

func fakeVariants() []models.Variant {
	variantsLen := rand.Intn(4)
	variants := make([]models.Variant, 0, variantsLen)
	for i := 0; i < variantsLen; i++ {
		variants = append(variants, FakeVariant())
	}

	return variants
}
