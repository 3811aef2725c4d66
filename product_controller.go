package marketplace

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

type ProductControllerRoutes struct {
	Create     string
	Seeds      string
	Byproducts string
}

type ProductController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *ProductControllerRoutes
	Certificates CertificateStore
	Prices       PriceProvider
	ContextKey   string
	ErrorHandler fiber.ErrorHandler
}

type ProductControllerOption func(*ProductController) *ProductController

func WithProductLogger(logger Logger) ProductControllerOption {
	return func(c *ProductController) *ProductController {
		c.Logger = logger
		return c
	}
}

func WithProductRepo(repo RepositoryManager) ProductControllerOption {
	return func(c *ProductController) *ProductController {
		c.Repo = repo
		return c
	}
}

func WithCertificateStore(store CertificateStore) ProductControllerOption {
	return func(c *ProductController) *ProductController {
		c.Certificates = store
		return c
	}
}

func WithPriceProvider(provider PriceProvider) ProductControllerOption {
	return func(c *ProductController) *ProductController {
		c.Prices = provider
		return c
	}
}

func NewProductController(opts ...ProductControllerOption) *ProductController {
	c := &ProductController{
		Logger:       defLogger{},
		ContextKey:   DefaultContextKey,
		ErrorHandler: RenderError,
		Prices:       noopPriceProvider{},
		Routes: &ProductControllerRoutes{
			Create:     "/products",
			Seeds:      "/products/seeds",
			Byproducts: "/products/byproducts",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in product controller...")
	}

	if c.Certificates == nil {
		panic("Missing CertificateStore in product controller...")
	}

	return c
}

// RegisterProductRoutes mounts the listing endpoints on the given router.
// Every product route sits behind the protected middleware.
func RegisterProductRoutes(app fiber.Router, controller *ProductController, protected fiber.Handler) {
	app.Post(controller.Routes.Create, protected, controller.CreatePost)
	app.Get(controller.Routes.Seeds, protected, controller.SeedsList)
	app.Get(controller.Routes.Byproducts, protected, controller.ByproductsList)
}

// CreateProductRequest is the multipart payload for a new listing. The
// certificate file rides alongside these fields and is handled separately.
type CreateProductRequest struct {
	Kind          string `form:"type" json:"type"`
	ProductName   string `form:"product_name" json:"product_name"`
	DateOfListing string `form:"date_of_listing" json:"date_of_listing"`
	AmountKg      string `form:"amount_kg" json:"amount_kg"`
}

// Validate will run validation rules
func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Kind,
			validation.Required,
			validation.In(KindSeeds, KindByproduct),
		),
		validation.Field(
			&r.ProductName,
			validation.Required,
			validation.Length(1, 255),
		),
		validation.Field(
			&r.DateOfListing,
			validation.Required,
			validation.Date("2006-01-02"),
		),
		validation.Field(
			&r.AmountKg,
			validation.Required,
			validation.Match(amountPattern).Error("must be a decimal with two places"),
		),
	)
}

func (a *ProductController) CreatePost(c *fiber.Ctx) error {
	user, ok := CurrentUser(c, a.ContextKey)
	if !ok {
		return a.ErrorHandler(c, ErrMissingCredentials)
	}

	payload := new(CreateProductRequest)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("CreatePost bind: %v", err)
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid product payload").
			WithCode(errors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println("===== PRODUCT CREATE ====")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, errors.New("invalid product payload", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{
				"validation": err,
			}))
	}

	record := &Product{
		OwnerID:       user.ID,
		Kind:          payload.Kind,
		ProductName:   payload.ProductName,
		DateOfListing: payload.DateOfListing,
		AmountKg:      payload.AmountKg,
	}

	// certificate is optional; only a present file is stored
	if fh, err := c.FormFile("certificate"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			a.Logger.Error("CreatePost open certificate: %v", err)
			return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "unreadable certificate upload").
				WithCode(errors.CodeBadRequest))
		}

		url, err := a.Certificates.Save(c.UserContext(), fh.Filename, src)
		src.Close()
		if err != nil {
			a.Logger.Error("CreatePost store certificate: %v", err)
			return a.ErrorHandler(c, err)
		}
		record.CertificateURL = url
	}

	created, err := a.Repo.Products().Create(c.UserContext(), record)
	if err != nil {
		a.Logger.Error("CreatePost create product: %v", err)
		return a.ErrorHandler(c, err)
	}

	a.enrichMarketPrice(c, created)

	return c.Status(fiber.StatusCreated).JSON(created)
}

// enrichMarketPrice is best effort: a provider without a quote, or a failed
// update, leaves the listing without a price and never fails the request.
func (a *ProductController) enrichMarketPrice(c *fiber.Ctx, product *Product) {
	if a.Prices == nil || product == nil {
		return
	}

	price, err := a.Prices.PricePerKgINR(c.UserContext(), product.ProductName)
	if err != nil {
		if !errors.Is(err, ErrPriceUnavailable) {
			a.Logger.Error("price lookup for %q: %v", product.ProductName, err)
		}
		return
	}

	if err := a.Repo.Products().SetMarketPrice(c.UserContext(), product.ID, price); err != nil {
		a.Logger.Error("price update for %s: %v", product.ID, err)
		return
	}

	product.MarketPricePerKgINR = price
}

func (a *ProductController) SeedsList(c *fiber.Ctx) error {
	return a.listByKind(c, KindSeeds)
}

func (a *ProductController) ByproductsList(c *fiber.Ctx) error {
	return a.listByKind(c, KindByproduct)
}

func (a *ProductController) listByKind(c *fiber.Ctx, kind ProductKind) error {
	user, ok := CurrentUser(c, a.ContextKey)
	if !ok {
		return a.ErrorHandler(c, ErrMissingCredentials)
	}

	records, err := a.Repo.Products().ListByOwnerAndKind(c.UserContext(), user.ID, kind)
	if err != nil {
		a.Logger.Error("listByKind %s: %v", kind, err)
		return a.ErrorHandler(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(records)
}
