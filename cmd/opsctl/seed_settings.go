package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/georgemunganga/fieldops-backend/internal/modules/settings"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

var (
	seedField string
	seedFile  string
)

var seedSettingsCmd = &cobra.Command{
	Use:   "seed-settings",
	Short: "Write a settings field (or the whole record) from a YAML file",
	Long: `Reads a YAML document and stores it in the settings record.

With --field the document is the value of that field, e.g. a list for
visit_types or a map of lists for task_categories. Without --field the
document holds all fields and replaces the record.

Fields: ` + strings.Join(settings.Fields, ", "),
	Args: cobra.NoArgs,
	RunE: runSeedSettings,
}

func init() {
	seedSettingsCmd.Flags().StringVar(&seedField, "field", "", "settings field to replace")
	seedSettingsCmd.Flags().StringVar(&seedFile, "file", "", "YAML file holding the value")
	_ = seedSettingsCmd.MarkFlagRequired("file")
}

func runSeedSettings(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return err
	}
	repo := settings.NewPostgresRepository(db)

	if seedField == "" {
		s, err := decodeSettings(raw)
		if err != nil {
			return err
		}
		if err := repo.Save(cmd.Context(), s); err != nil {
			return err
		}
		log.WithField("file", seedFile).Info("settings replaced")
		return nil
	}

	if !slices.Contains(settings.Fields, seedField) {
		return fmt.Errorf("%w %q (want one of %s)", settings.ErrUnknownField, seedField, strings.Join(settings.Fields, ", "))
	}
	value, err := yamlToJSON(raw)
	if err != nil {
		return err
	}
	if err := repo.SetField(cmd.Context(), seedField, value); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"field": seedField, "file": seedFile}).Info("settings field seeded")
	return nil
}

// yamlToJSON re-encodes a YAML document as JSON.
func yamlToJSON(raw []byte) (json.RawMessage, error) {
	var v interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("parse yaml: empty document")
	}
	return json.Marshal(v)
}

// decodeSettings parses a full settings document and validates it.
func decodeSettings(raw []byte) (*settings.Settings, error) {
	s := &settings.Settings{}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if errs := validation.SafeValidate(*s); errs != nil {
		return nil, errs
	}
	return s, nil
}
