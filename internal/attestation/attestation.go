package attestation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"strings"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	"github.com/agridirect/marketplace/internal/events"
	"github.com/agridirect/marketplace/internal/observability/metrics"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/internal/storage"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageSize is the edge length in pixels of generated codes.
const ImageSize = 256

// Encoder renders content as a PNG image.
type Encoder func(content string) ([]byte, error)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Config    config.Config
	Repo      productdomain.Repository
	Store     storage.Store
	Clock     clock.Clock
	Publisher events.Publisher
	Metrics   *metrics.Metrics `optional:"true"`
}

// Issuer binds a product to a QR code that points at its public certificate.
type Issuer struct {
	db        *gorm.DB
	log       *zap.Logger
	baseURL   string
	repo      productdomain.Repository
	store     storage.Store
	clock     clock.Clock
	publisher events.Publisher
	metrics   *metrics.Metrics
	encode    Encoder
}

func New(p Params) *Issuer {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Issuer{
		db:        p.DB,
		log:       p.Log.Named("attestation"),
		baseURL:   strings.TrimRight(p.Config.PublicBaseURL, "/"),
		repo:      p.Repo,
		store:     p.Store,
		clock:     p.Clock,
		publisher: publisher,
		metrics:   p.Metrics,
		encode:    EncodePNG,
	}
}

// WithEncoder swaps the image encoder.
func (i *Issuer) WithEncoder(enc Encoder) *Issuer {
	i.encode = enc
	return i
}

func EncodePNG(content string) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, ImageSize, ImageSize)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArtifactName is the storage name of a product's code. Reissuing overwrites it.
func ArtifactName(productID snowflake.ID) string {
	return productID.String() + "-authQR.png"
}

// URLFor is the content encoded into the code for productID.
func (i *Issuer) URLFor(productID snowflake.ID) string {
	return i.baseURL + "/product/" + productID.String() + "/view"
}

func (i *Issuer) Issue(ctx context.Context, productID int64) (*productdomain.Product, error) {
	product, err := i.find(ctx, productID)
	if err != nil {
		return nil, err
	}
	product, _, err = i.issue(ctx, product)
	return product, err
}

// IssueByID reissues the code for a product addressed by its public id.
func (i *Issuer) IssueByID(ctx context.Context, id string) (*productdomain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, productdomain.ErrNotFound
	}
	return i.Issue(ctx, productID.Int64())
}

// Image returns the stored PNG for a product, issuing it first when the
// product has no usable artifact.
func (i *Issuer) Image(ctx context.Context, id string) ([]byte, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, productdomain.ErrNotFound
	}
	product, err := i.find(ctx, productID.Int64())
	if err != nil {
		return nil, err
	}

	if product.AttestationStatus == productdomain.AttestationIssued && product.AttestationCode != nil {
		data, err := i.read(ctx, product.ID)
		if err == nil {
			return data, nil
		}
		i.log.Warn("stored attestation unreadable, reissuing",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}

	_, data, err := i.issue(ctx, product)
	return data, err
}

func (i *Issuer) Discard(ctx context.Context, productID int64) error {
	return i.store.Delete(ctx, ArtifactName(snowflake.ID(productID)))
}

func (i *Issuer) issue(ctx context.Context, product *productdomain.Product) (*productdomain.Product, []byte, error) {
	name := ArtifactName(product.ID)

	data, err := i.encode(i.URLFor(product.ID))
	if err != nil {
		i.markFailed(ctx, product, err)
		i.metrics.RecordAttestation(ctx, "encoding_failed")
		return nil, nil, fmt.Errorf("%w: %v", productdomain.ErrEncoding, err)
	}

	ref, err := i.store.Save(ctx, name, bytes.NewReader(data), "image/png")
	if err != nil {
		i.markFailed(ctx, product, err)
		i.metrics.RecordAttestation(ctx, "storage_failed")
		return nil, nil, fmt.Errorf("%w: %v", productdomain.ErrStorage, err)
	}

	now := i.clock.Now()
	err = i.repo.UpdateFields(ctx, i.db, product.ID.Int64(), map[string]any{
		"attestation_code":   ref,
		"attestation_status": productdomain.AttestationIssued,
		"attestation_error":  "",
		"updated_at":         now,
	})
	if err != nil {
		// An Issued row must always point at a stored artifact.
		if delErr := i.store.Delete(ctx, name); delErr != nil {
			i.log.Error("failed to remove orphaned attestation artifact",
				zap.String("product_id", product.ID.String()),
				zap.Error(delErr),
			)
		}
		i.markFailed(ctx, product, err)
		i.metrics.RecordAttestation(ctx, "storage_failed")
		if db.IsDuplicateKeyErr(err) {
			return nil, nil, productdomain.ErrDuplicateAttestation
		}
		if db.IsNotFound(err) {
			return nil, nil, productdomain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", productdomain.ErrStorage, err)
	}

	product.AttestationCode = &ref
	product.AttestationStatus = productdomain.AttestationIssued
	product.AttestationError = ""
	product.UpdatedAt = now

	i.metrics.RecordAttestation(ctx, "issued")
	i.publisher.Publish(ctx, events.Event{
		Name: events.ProductAttested,
		ID:   product.ID.String(),
		At:   now,
		Data: map[string]any{"code": ref, "url": i.URLFor(product.ID)},
	})
	i.log.Info("attestation issued",
		zap.String("product_id", product.ID.String()),
		zap.String("code", ref),
	)
	return product, data, nil
}

func (i *Issuer) markFailed(ctx context.Context, product *productdomain.Product, cause error) {
	err := i.repo.UpdateFields(ctx, i.db, product.ID.Int64(), map[string]any{
		"attestation_status": productdomain.AttestationFailed,
		"attestation_error":  cause.Error(),
		"updated_at":         i.clock.Now(),
	})
	if err != nil {
		i.log.Error("failed to record attestation failure",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
		return
	}
	product.AttestationStatus = productdomain.AttestationFailed
	product.AttestationError = cause.Error()
}

func (i *Issuer) read(ctx context.Context, productID snowflake.ID) ([]byte, error) {
	rc, err := i.store.Open(ctx, ArtifactName(productID))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty attestation artifact")
	}
	return data, nil
}

func (i *Issuer) find(ctx context.Context, productID int64) (*productdomain.Product, error) {
	product, err := i.repo.FindByID(ctx, i.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}
	return product, nil
}
