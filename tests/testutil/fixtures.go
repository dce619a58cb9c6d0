package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
)

// SolidPNG encodes a w x h image of a single color
func SolidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return encodePNG(t, img)
}

// StripesPNG encodes black and white stripes of the given width.
// Vertical and horizontal stripes of the same image are structurally unrelated.
func StripesPNG(t *testing.T, w, h, stripe int, vertical bool) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := y
			if vertical {
				pos = x
			}
			if (pos/stripe)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return encodePNG(t, img)
}

// GradientPNG encodes a horizontal gray ramp from black to white
func GradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / max(w-1, 1))})
		}
	}
	return encodePNG(t, img)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG fixture: %v", err)
	}
	return buf.Bytes()
}

var orderSeq atomic.Int64

// ItemSeed describes an order item to create
type ItemSeed struct {
	DesignImageKey string
	Color          string
	Size           string
	Quantity       int
	Completed      bool
}

// CreateOrder inserts an order assigned to facilityID with the given items.
// Items default to a black size M shirt of quantity 1.
func CreateOrder(t *testing.T, db *gorm.DB, facilityID uint, status models.OrderStatus, items ...ItemSeed) models.Order {
	t.Helper()

	order := models.Order{
		OrderNumber: fmt.Sprintf("ORD-%05d", orderSeq.Add(1)),
		FacilityID:  &facilityID,
		Status:      status,
	}
	for i, seed := range items {
		item := models.OrderItem{
			DesignImageKey:   seed.DesignImageKey,
			Color:            seed.Color,
			Size:             seed.Size,
			Quantity:         seed.Quantity,
			CompletionStatus: models.CompletionPending,
		}
		if item.DesignImageKey == "" {
			item.DesignImageKey = fmt.Sprintf("designs/%s-%d.png", order.OrderNumber, i)
		}
		if item.Color == "" {
			item.Color = "black"
		}
		if item.Size == "" {
			item.Size = "M"
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if seed.Completed {
			completedAt := time.Now().UTC()
			item.CompletionStatus = models.CompletionCompleted
			item.CompletedAt = &completedAt
		}
		order.Items = append(order.Items, item)
	}

	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	return order
}

// ReloadOrder reads an order and its items back from the database
func ReloadOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()
	var order models.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		t.Fatalf("Failed to reload order %d: %v", id, err)
	}
	return order
}

// ReloadItem reads an order item back from the database
func ReloadItem(t *testing.T, db *gorm.DB, id uint) models.OrderItem {
	t.Helper()
	var item models.OrderItem
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("Failed to reload order item %d: %v", id, err)
	}
	return item
}

// ReloadPhoto reads a completion photo back from the database
func ReloadPhoto(t *testing.T, db *gorm.DB, id uint) models.CompletionPhoto {
	t.Helper()
	var photo models.CompletionPhoto
	if err := db.First(&photo, id).Error; err != nil {
		t.Fatalf("Failed to reload completion photo %d: %v", id, err)
	}
	return photo
}
