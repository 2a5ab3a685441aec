package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func validate(c *Config) error {
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if len(c.Currency.BaseCurrency) != 3 {
		return fmt.Errorf("currency.base must be a 3-letter code, got %q", c.Currency.BaseCurrency)
	}
	if len(c.Currency.DisplayCurrency) != 3 {
		return fmt.Errorf("currency.display must be a 3-letter code, got %q", c.Currency.DisplayCurrency)
	}
	return nil
}
