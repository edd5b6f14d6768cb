package settings

import (
	"github.com/GoWebAPP/GoWebAPP/internal/db/controller/setting"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Backend persists option values by option name.
type Backend interface {
	// Load returns the stored values for the given names. Missing names are
	// absent from the result.
	Load(names []string) (map[string]string, error)
	// SaveAll writes every value or none.
	SaveAll(values map[string]string) error
	// DeleteAll removes the given names.
	DeleteAll(names []string) error
}

// GormBackend stores options in the settings table.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend returns a Backend over db.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (g *GormBackend) Load(names []string) (map[string]string, error) {
	raw, err := setting.GetMany(g.db, names...)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for name, value := range raw {
		out[name] = string(value)
	}

	return out, nil
}

func (g *GormBackend) SaveAll(values map[string]string) error {
	raw := make(map[string][]byte, len(values))
	for name, value := range values {
		raw[name] = []byte(value)
	}

	return errors.Wrap(setting.SetMany(g.db, raw), "save settings")
}

func (g *GormBackend) DeleteAll(names []string) error {
	return setting.DeleteMany(g.db, names...)
}
