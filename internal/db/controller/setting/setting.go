// Package setting provides the gorm backed key-value store for named options.
package setting

import (
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
)

const (
	nameQueryPattern  = "name = ?"
	namesQueryPattern = "name IN ?"
	nameColumn        = "name"
	valueColumn       = "value"
	updatedAtColumn   = "updated_at"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	result := db.Where(nameQueryPattern, name).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// GetMany retrieves the named settings as a name to value map.
// Names without a stored row are absent from the result.
func GetMany(db *gorm.DB, names ...string) (map[string][]byte, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting

	query := db.Model(&models.Setting{})
	if len(names) > 0 {
		query = query.Where(namesQueryPattern, names)
	}

	if err := query.Find(&settings).Error; err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(settings))
	for _, s := range settings {
		out[s.Name] = s.Value
	}

	return out, nil
}

// Set creates or updates a setting by name.
func Set(db *gorm.DB, name string, value []byte) error {
	return SetMany(db, map[string][]byte{name: value})
}

// SetMany upserts all given settings in one transaction. Either every value
// is written or, on error, none is.
func SetMany(db *gorm.DB, values map[string][]byte) error {
	if db == nil {
		return ErrDBNil
	}

	if len(values) == 0 {
		return nil
	}

	rows := make([]models.Setting, 0, len(values))
	for name, value := range values {
		if name == "" {
			return ErrSettingNameEmpty
		}

		rows = append(rows, models.Setting{Name: name, Value: value})
	}

	// deterministic row order
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: nameColumn}},
			DoUpdates: clause.AssignmentColumns([]string{valueColumn, updatedAtColumn}),
		}).Create(&rows).Error
	})
}

// DeleteByName deletes a setting by name.
func DeleteByName(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// DeleteMany deletes the named settings in one statement. Missing names are ignored.
func DeleteMany(db *gorm.DB, names ...string) error {
	if db == nil {
		return ErrDBNil
	}

	if len(names) == 0 {
		return nil
	}

	return db.Where(namesQueryPattern, names).Delete(&models.Setting{}).Error
}
