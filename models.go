package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// ProductKind discriminates the two listing categories
type ProductKind = string

const (
	// KindSeeds marks a seed listing
	KindSeeds ProductKind = "seeds"
	// KindByproduct marks a byproduct listing
	KindByproduct ProductKind = "byproduct"
)

// ValidProductKind reports whether kind is one of the listing categories
func ValidProductKind(kind string) bool {
	return kind == KindSeeds || kind == KindByproduct
}

// Product is a marketplace listing owned by a user. Amounts and prices are
// canonical two-decimal strings; no arithmetic is performed on them here.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`

	ID                  uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID             uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Owner               *User      `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	Kind                string     `bun:"kind,notnull" json:"type"`
	ProductName         string     `bun:"product_name,notnull" json:"product_name"`
	DateOfListing       string     `bun:"date_of_listing,notnull" json:"date_of_listing"`
	CertificateURL      string     `bun:"certificate_url,nullzero" json:"certificate_url,omitempty"`
	AmountKg            string     `bun:"amount_kg,notnull" json:"amount_kg"`
	MarketPricePerKgINR string     `bun:"market_price_per_kg_inr,nullzero" json:"market_price_per_kg_inr,omitempty"`
	CreatedAt           *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
