package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("file", isFileReadable); err != nil {
		return nil, nil, fmt.Errorf("failed to register file validation: %w", err)
	}
	validate.RegisterStructValidation(validateColumns, catalog.Columns{})

	messages := map[string]string{
		"file":           "{0} must be an existing and readable file",
		"distinct_label": "{0} reuses the column label {1}",
	}
	for tag, message := range messages {
		if err := registerTranslation(validate, trans, tag, message); err != nil {
			return nil, nil, err
		}
	}

	return validate, trans, nil
}

// registerTranslation renders {0} as the config key path, e.g.
// spreadsheet.timeout_seconds, and {1} as the rule parameter.
func registerTranslation(validate *validator.Validate, trans ut.Translator, tag string, message string) error {
	err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, strings.TrimPrefix(fe.Namespace(), "Config."), fe.Param())
		return t
	})
	if err != nil {
		return fmt.Errorf("failed to register %s translation: %w", tag, err)
	}
	return nil
}

// validateColumns rejects two fields mapped to the same label, compared the
// way the catalog builder matches headers.
func validateColumns(sl validator.StructLevel) {
	columns := sl.Current().Interface().(catalog.Columns)
	fields := []struct {
		name  string
		label string
	}{
		{"module", columns.Module},
		{"title", columns.Title},
		{"video", columns.Video},
		{"document", columns.Document},
		{"youtube", columns.YouTube},
		{"duration", columns.Duration},
		{"order", columns.Order},
		{"level", columns.Level},
	}

	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		label := strings.ToLower(strings.TrimSpace(field.label))
		if label == "" {
			continue
		}
		if seen[label] {
			sl.ReportError(field.label, field.name, field.name, "distinct_label", field.label)
			continue
		}
		seen[label] = true
	}
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	if info.IsDir() {
		return false
	}

	// Check if the owner has read permission
	return info.Mode().Perm()&(1<<(uint(7))) != 0
}
