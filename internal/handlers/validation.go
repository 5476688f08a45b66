package handlers

import (
	"fmt"

	"fabtech_dashboard/internal/catalog"
	"fabtech_dashboard/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the form rules for enumerated fields to gin's
// binding engine. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}

	rules := map[string]validator.Func{
		"design": func(fl validator.FieldLevel) bool {
			_, ok := catalog.Lookup(fl.Field().String())
			return ok
		},
		"site_status": func(fl validator.FieldLevel) bool {
			switch models.SiteStatus(fl.Field().String()) {
			case models.SiteReady, models.Site15Days, models.Site1To2Months, models.Site5To6Months, models.SiteStatusOther:
				return true
			}
			return false
		},
		"category": func(fl validator.FieldLevel) bool {
			switch models.CustomerCategory(fl.Field().String()) {
			case models.CategoryCustomer, models.CategoryArchitecture, models.CategoryContractor, models.CategoryOther:
				return true
			}
			return false
		},
		"mosquito_window": func(fl validator.FieldLevel) bool {
			switch models.MosquitoWindow(fl.Field().String()) {
			case models.MosquitoOneSide, models.MosquitoBothSide, models.MosquitoNone:
				return true
			}
			return false
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
