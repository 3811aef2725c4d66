package marketplace

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// RenderError writes the JSON error envelope for a handler failure. The
// envelope is {"error": message} plus an optional "validation" map when the
// failure carries field-level details.
func RenderError(c *fiber.Ctx, err error) error {
	var e *errors.Error
	if !errors.As(err, &e) {
		e = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := e.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	body := fiber.Map{"error": e.Message}
	if e.Metadata != nil {
		if v, ok := e.Metadata["validation"]; ok {
			body["validation"] = v
		}
	}

	return c.Status(status).JSON(body)
}

type AuthControllerRoutes struct {
	Register string
	Login    string
	Profile  string
	Logout   string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       *Auther
	ContextKey   string
	ErrorHandler fiber.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithAuthDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithAuthRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ContextKey:   DefaultContextKey,
		ErrorHandler: RenderError,
		Routes: &AuthControllerRoutes{
			Register: "/register",
			Login:    "/login",
			Profile:  "/profile",
			Logout:   "/logout",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the account endpoints on the given router.
// Registration, login, and logout are public; profile sits behind the
// protected middleware.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, protected fiber.Handler) {
	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)
	app.Get(controller.Routes.Profile, protected, controller.ProfileShow)
}

// RegisterRequest payload
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 150),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("RegisterPost bind: %v", err)
		return a.ErrorHandler(c, ErrFieldsRequired)
	}

	if a.Debug {
		fmt.Println("====== AUTH REGISTER ====")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	if err := payload.Validate(); err != nil {
		// fresh error so the shared sentinel never carries request metadata
		return a.ErrorHandler(c, errors.New(ErrFieldsRequired.Message, ErrFieldsRequired.Category).
			WithTextCode(ErrFieldsRequired.TextCode).
			WithCode(ErrFieldsRequired.Code).
			WithMetadata(map[string]any{
				"validation": err,
			}))
	}

	if _, err := a.Auther.RegisterUser(c.UserContext(), payload.Username, payload.Email, payload.Password); err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("LoginPost bind: %v", err)
		return a.ErrorHandler(c, ErrInvalidCredentials)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	// Missing fields get the same response as bad credentials so probes
	// cannot tell which field was wrong.
	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, ErrInvalidCredentials)
	}

	result, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return a.ErrorHandler(c, ErrInvalidCredentials)
		}
		a.Logger.Error("LoginPost login: %v", err)
		return a.ErrorHandler(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token":    result.Token,
		"username": result.Identity.Username(),
	})
}

func (a *AuthController) ProfileShow(c *fiber.Ctx) error {
	user, ok := CurrentUser(c, a.ContextKey)
	if !ok {
		return a.ErrorHandler(c, ErrMissingCredentials)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"username": user.Username,
		"email":    user.Email,
	})
}

// LogoutPost is stateless: tokens are not tracked server side, clients drop
// theirs to end the session.
func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logout handled on client side",
	})
}
