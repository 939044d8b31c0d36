// Package schema declares the form schemas accepted by the storefront admin
// and typed helpers to run them.
package schema

import (
	"fmt"
	"regexp"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/validation"
)

const (
	Login    = "login"
	Register = "register"
	Category = "category"
	Product  = "product"
	Customer = "customer"
)

var (
	SlugPattern          = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	CustomerEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	PhonePattern         = regexp.MustCompile(`^(?:\+237|00237)?(?:6[5-9]\d{7}|2[23]\d{7}|33\d{7})$`)
)

var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/svg+xml",
	"image/tiff",
	"image/jpg",
}

var loginSchema = validation.NewSchema(Login,
	func(v validation.Values) any {
		return &domain.LoginInput{
			Email:    v.String("email"),
			Password: v.String("password"),
		}
	},
	validation.String("email",
		validation.MinLength(1, "Email is required"),
		validation.Tag("email", "Invalid email address"),
	).WithRequiredMessage("Email is required"),
	validation.String("password",
		validation.MinLength(1, "Password is required"),
		validation.MinLength(6, "Password must be at least 6 characters"),
	).WithRequiredMessage("Password is required"),
)

var registerSchema = validation.NewSchema(Register,
	func(v validation.Values) any {
		return &domain.RegisterInput{
			Name:            v.String("name"),
			Email:           v.String("email"),
			Password:        v.String("password"),
			ConfirmPassword: v.String("confirmPassword"),
		}
	},
	validation.String("name",
		validation.MinLength(2, "Name must be at least 2 characters"),
	),
	validation.String("email",
		validation.Tag("email", "Invalid email address"),
	),
	validation.String("password",
		validation.MinLength(8, "Password must be at least 8 characters"),
	),
	validation.String("confirmPassword"),
).Refine("confirmPassword", "Passwords don't match", func(v validation.Values) bool {
	return v.String("password") == v.String("confirmPassword")
})

var categorySchema = validation.NewSchema(Category,
	func(v validation.Values) any {
		return &domain.CategoryInput{
			Name:        v.String("name"),
			Slug:        v.String("slug"),
			Description: v.String("description"),
			IsActive:    v.Bool("isActive"),
			Image:       v.File("image"),
		}
	},
	validation.String("name",
		validation.MinLength(2, "Name must be at least 2 characters"),
	),
	validation.String("slug",
		validation.MinLength(2, "Slug must be at least 2 characters"),
		validation.Matches(SlugPattern, "Slug must contain only lowercase letters, numbers and hyphens"),
	),
	validation.String("description").AsOptional(),
	validation.Bool("isActive").WithDefault(true),
	validation.File("image",
		validation.MediaType(AllowedImageTypes, "Only .jpg, .jpeg, .png, .gif, .webp, .bmp, .svg and .tiff formats are supported"),
	).AsOptional(),
)

var productSchema = validation.NewSchema(Product,
	func(v validation.Values) any {
		return &domain.ProductInput{
			Name:           v.String("name"),
			Slug:           v.String("slug"),
			Description:    v.String("description"),
			IsVisible:      v.Bool("isVisible"),
			Availability:   v.Time("availability"),
			Categories:     v.Ints("categories"),
			Images:         v.Strings("images"),
			Price:          v.Float("price"),
			CompareAtPrice: v.Float("compareAtPrice"),
			CostPerItem:    v.FloatPtr("costPerItem"),
		}
	},
	validation.String("name",
		validation.MinLength(1, "Name is required"),
	),
	validation.String("slug").AsOptional(),
	validation.String("description"),
	validation.Bool("isVisible").WithDefault(true),
	validation.Date("availability").WithRequiredMessage("Availability date is required"),
	validation.IntList("categories",
		validation.MinItems(1, "At least one category is required"),
	).WithRequiredMessage("At least one category is required"),
	validation.StringList("images",
		validation.MinItems(1, "At least one image is required"),
	).WithRequiredMessage("At least one image is required"),
	validation.Number("price",
		validation.Min(0, "Price must be greater than or equal to 0"),
	),
	validation.Number("compareAtPrice",
		validation.Min(0, "Compare-at price must be greater than or equal to 0"),
	),
	validation.Number("costPerItem").AsOptional(),
)

var customerSchema = validation.NewSchema(Customer,
	func(v validation.Values) any {
		return &domain.CustomerInput{
			Name:       v.String("name"),
			Email:      v.String("email"),
			Phone:      v.String("phone"),
			City:       v.String("city"),
			Address:    v.String("address"),
			Occupation: v.String("occupation"),
		}
	},
	validation.String("name",
		validation.MinLength(2, "Name must be at least 2 characters"),
	),
	validation.String("email",
		validation.Matches(CustomerEmailPattern, "Invalid email address"),
	).AsOptional(),
	validation.String("phone",
		validation.Matches(PhonePattern, "Invalid phone number"),
	).WithRequiredMessage("Phone number is required"),
	validation.String("city").AsOptional(),
	validation.String("address").AsOptional(),
	validation.String("occupation").AsOptional(),
)

// Registry holds every form schema by name.
var Registry = validation.NewRegistry(
	loginSchema,
	registerSchema,
	categorySchema,
	productSchema,
	customerSchema,
)

func Validate(name string, raw map[string]any) (any, error) {
	return Registry.Validate(name, raw)
}

func decode[T any](name string, raw map[string]any) (*T, error) {
	v, err := Registry.MustSchema(name).Validate(raw)
	if err != nil {
		return nil, err
	}
	out, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("schema %s produced %T", name, v)
	}
	return out, nil
}

func ValidateLogin(raw map[string]any) (*domain.LoginInput, error) {
	return decode[domain.LoginInput](Login, raw)
}

func ValidateRegister(raw map[string]any) (*domain.RegisterInput, error) {
	return decode[domain.RegisterInput](Register, raw)
}

func ValidateCategory(raw map[string]any) (*domain.CategoryInput, error) {
	return decode[domain.CategoryInput](Category, raw)
}

func ValidateProduct(raw map[string]any) (*domain.ProductInput, error) {
	return decode[domain.ProductInput](Product, raw)
}

func ValidateCustomer(raw map[string]any) (*domain.CustomerInput, error) {
	return decode[domain.CustomerInput](Customer, raw)
}
