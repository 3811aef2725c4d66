package marketplace

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Products is the product repository. Listings are always scoped to a single
// owner and a single kind; there is no unscoped listing.
type Products interface {
	repository.Repository[*Product]

	Create(ctx context.Context, record *Product, criteria ...repository.InsertCriteria) (*Product, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Product, criteria ...repository.InsertCriteria) (*Product, error)

	ListByOwnerAndKind(ctx context.Context, ownerID uuid.UUID, kind ProductKind) ([]*Product, error)
	ListByOwnerAndKindTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, kind ProductKind) ([]*Product, error)

	SetMarketPrice(ctx context.Context, id uuid.UUID, pricePerKgINR string) error
}

type products struct {
	repository.Repository[*Product]
	db *bun.DB
}

var (
	_ Products                        = (*products)(nil)
	_ repository.Repository[*Product] = (*products)(nil)
)

func NewProductsRepository(db *bun.DB) Products {
	repo := repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &products{
		Repository: repo,
		db:         db,
	}
}

func (a *products) Create(ctx context.Context, record *Product, criteria ...repository.InsertCriteria) (*Product, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *products) CreateTx(ctx context.Context, tx bun.IDB, record *Product, criteria ...repository.InsertCriteria) (*Product, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *products) ListByOwnerAndKind(ctx context.Context, ownerID uuid.UUID, kind ProductKind) ([]*Product, error) {
	return a.ListByOwnerAndKindTx(ctx, a.db, ownerID, kind)
}

func (a *products) ListByOwnerAndKindTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, kind ProductKind) ([]*Product, error) {
	records := []*Product{}
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.owner_id = ?", ownerID).
		Where("?TableAlias.kind = ?", kind).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	// callers serialize this straight to JSON; an empty list is a list
	return records, nil
}

// SetMarketPrice records the enrichment result after creation. It is the only
// mutation products ever see.
func (a *products) SetMarketPrice(ctx context.Context, id uuid.UUID, pricePerKgINR string) error {
	_, err := a.db.NewUpdate().
		Model((*Product)(nil)).
		Set("market_price_per_kg_inr = ?", pricePerKgINR).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
