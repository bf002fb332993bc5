package attestation

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	"github.com/agridirect/marketplace/internal/events"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/internal/product/repository"
	"github.com/agridirect/marketplace/internal/storage"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// failingRepo rejects writes that bind an attestation code.
type failingRepo struct {
	productdomain.Repository
}

func (r failingRepo) UpdateFields(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error {
	if _, ok := fields["attestation_code"]; ok {
		return errors.New("disk full")
	}
	return r.Repository.UpdateFields(ctx, db, id, fields)
}

type testEnv struct {
	issuer *Issuer
	db     *gorm.DB
	dir    string
	repo   productdomain.Repository
	events *events.Recorder
}

func newTestEnv(t *testing.T, repo productdomain.Repository) testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&productdomain.Product{}))

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	if repo == nil {
		repo = repository.Provide()
	}
	recorder := &events.Recorder{}
	issuer := New(Params{
		DB:        dbConn,
		Log:       zap.NewNop(),
		Config:    config.Config{PublicBaseURL: "https://market.example/"},
		Repo:      repo,
		Store:     store,
		Clock:     clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
		Publisher: recorder,
	})
	return testEnv{issuer: issuer, db: dbConn, dir: dir, repo: repo, events: recorder}
}

func (e testEnv) seedProduct(t *testing.T) *productdomain.Product {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	p := &productdomain.Product{
		ID:                node.Generate(),
		FarmerID:          node.Generate(),
		Name:              "Wheat",
		Price:             decimal.NewFromInt(50),
		Quantity:          100,
		Image:             "/uploads/wheat.jpg",
		AttestationStatus: productdomain.AttestationPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e testEnv) reload(t *testing.T, id snowflake.ID) *productdomain.Product {
	t.Helper()
	p, err := repository.Provide().FindByID(context.Background(), e.db, id.Int64())
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestURLFor(t *testing.T) {
	env := newTestEnv(t, nil)
	assert.Equal(t, "https://market.example/product/42/view", env.issuer.URLFor(snowflake.ID(42)))
}

func TestIssueStoresArtifactAndCode(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedProduct(t)

	issued, err := env.issuer.Issue(context.Background(), p.ID.Int64())
	require.NoError(t, err)
	require.NotNil(t, issued.AttestationCode)
	assert.Equal(t, "/uploads/"+ArtifactName(p.ID), *issued.AttestationCode)
	assert.Equal(t, productdomain.AttestationIssued, issued.AttestationStatus)

	raw, err := os.ReadFile(filepath.Join(env.dir, ArtifactName(p.ID)))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, ImageSize, img.Bounds().Dx())

	stored := env.reload(t, p.ID)
	assert.Equal(t, productdomain.AttestationIssued, stored.AttestationStatus)
	assert.Equal(t, []string{events.ProductAttested}, env.events.Names())

	// Reissuing overwrites the same artifact.
	again, err := env.issuer.Issue(context.Background(), p.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, *issued.AttestationCode, *again.AttestationCode)
}

func TestIssueEncodingFailureMarksFailed(t *testing.T) {
	env := newTestEnv(t, nil)
	env.issuer.WithEncoder(func(string) ([]byte, error) { return nil, errors.New("boom") })
	p := env.seedProduct(t)

	_, err := env.issuer.Issue(context.Background(), p.ID.Int64())
	require.ErrorIs(t, err, productdomain.ErrEncoding)

	stored := env.reload(t, p.ID)
	assert.Equal(t, productdomain.AttestationFailed, stored.AttestationStatus)
	assert.Nil(t, stored.AttestationCode)
	assert.Equal(t, "boom", stored.AttestationError)
}

func TestIssueRemovesArtifactWhenUpdateFails(t *testing.T) {
	env := newTestEnv(t, failingRepo{Repository: repository.Provide()})
	p := env.seedProduct(t)

	_, err := env.issuer.Issue(context.Background(), p.ID.Int64())
	require.ErrorIs(t, err, productdomain.ErrStorage)

	_, statErr := os.Stat(filepath.Join(env.dir, ArtifactName(p.ID)))
	assert.True(t, os.IsNotExist(statErr))

	stored := env.reload(t, p.ID)
	assert.Equal(t, productdomain.AttestationFailed, stored.AttestationStatus)
	assert.Nil(t, stored.AttestationCode)
}

func TestImageIssuesOnDemand(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedProduct(t)

	data, err := env.issuer.Image(context.Background(), p.ID.String())
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, productdomain.AttestationIssued, env.reload(t, p.ID).AttestationStatus)

	require.NoError(t, os.Remove(filepath.Join(env.dir, ArtifactName(p.ID))))
	data, err = env.issuer.Image(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	_, err = os.Stat(filepath.Join(env.dir, ArtifactName(p.ID)))
	assert.NoError(t, err)
}

func TestUnknownProduct(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.issuer.Image(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, productdomain.ErrNotFound)

	_, err = env.issuer.IssueByID(context.Background(), "12345")
	assert.ErrorIs(t, err, productdomain.ErrNotFound)
}

func TestDiscardIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedProduct(t)

	_, err := env.issuer.Issue(context.Background(), p.ID.Int64())
	require.NoError(t, err)
	require.NoError(t, env.issuer.Discard(context.Background(), p.ID.Int64()))
	require.NoError(t, env.issuer.Discard(context.Background(), p.ID.Int64()))
}
