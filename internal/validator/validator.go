// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset_type", validateAssetType)
		_ = v.RegisterValidation("trade_side", validateTradeSide)
	}
}

func validateAssetType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "crypto", "stablecoin", "cash":
		return true
	}
	return false
}

func validateTradeSide(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BUY", "SELL":
		return true
	}
	return false
}
