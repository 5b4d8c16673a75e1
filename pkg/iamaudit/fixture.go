package iamaudit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk format of simulated provider data.
type Fixture struct {
	Users []UserRecord `yaml:"users"`
}

// LoadFixture reads simulated user records from a YAML file.
func LoadFixture(path string) ([]UserRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrConfiguration(fmt.Sprintf("failed to read fixture %s", path)).WithCause(err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes simulated user records from YAML.
func ParseFixture(data []byte) ([]UserRecord, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, ErrConfiguration("invalid fixture format").WithCause(err)
	}
	return f.Users, nil
}
