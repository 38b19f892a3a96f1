package merchant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ledgerkeep/ingest/pkg/models"
)

// mappingsFile is the YAML shape of a user-mappings file, used by the CLI
// to resolve against the same rules the server stores per user.
type mappingsFile struct {
	Mappings []models.MerchantMapping `yaml:"mappings"`
}

// LoadMappings reads user merchant mappings from a YAML file, preserving
// file order (resolution is first-found).
func LoadMappings(path string) ([]models.MerchantMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file %s: %w", path, err)
	}

	var file mappingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse mappings file %s: %w", path, err)
	}
	return file.Mappings, nil
}
