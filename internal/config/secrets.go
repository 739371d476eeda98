package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// Secret field names accepted by RequireSecrets
const (
	SecretPrivateKey      = "PrivateKey"
	SecretMnemonicPhrase  = "MnemonicPhrase"
	SecretEtherscanAPIKey = "EtherscanAPIKey"
	SecretContractAddress = "ContractAddress"
	SecretOwner           = "Owner"
)

var secretsValidator = newSecretsValidator()

func newSecretsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report env variable names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("env"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// RequireSecrets checks that the named secrets are present and non-blank.
// It returns a *domain.MissingConfigurationError naming every missing variable.
func RequireSecrets(secrets config.Secrets, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	trimmed := config.Secrets{
		PrivateKey:      strings.TrimSpace(secrets.PrivateKey),
		MnemonicPhrase:  strings.TrimSpace(secrets.MnemonicPhrase),
		EtherscanAPIKey: strings.TrimSpace(secrets.EtherscanAPIKey),
		ContractAddress: strings.TrimSpace(secrets.ContractAddress),
		Owner:           strings.TrimSpace(secrets.Owner),
	}

	err := secretsValidator.StructPartial(trimmed, fields...)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}

	missing := &domain.MissingConfigurationError{}
	for _, fe := range verrs {
		missing.Keys = append(missing.Keys, fe.Field())
	}
	return missing
}
