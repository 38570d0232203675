package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/LouisZerri/porsche-options-sub000/models"
)

// UpsertModel merges a model keyed by its code and returns the row id.
func (s *Store) UpsertModel(m *models.Model) (int64, error) {
	techJSON, err := json.Marshal(orEmptyMap(m.TechnicalData))
	if err != nil {
		return 0, fmt.Errorf("encode technical data: %w", err)
	}
	equipJSON, err := json.Marshal(orEmptySlice(m.StandardEquipment))
	if err != nil {
		return 0, fmt.Errorf("encode standard equipment: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO models (code, name, family, base_price, year, technical_data, standard_equipment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			family = excluded.family,
			base_price = excluded.base_price,
			year = excluded.year,
			technical_data = excluded.technical_data,
			standard_equipment = excluded.standard_equipment,
			updated_at = CURRENT_TIMESTAMP`,
		m.Code, m.Name, m.Family, m.BasePrice, m.Year, string(techJSON), string(equipJSON))
	if err != nil {
		return 0, models.NewExtractError(models.ErrCodePersistence, "upsert model", err)
	}

	var id int64
	if err := s.db.QueryRow(`SELECT id FROM models WHERE code = ?`, m.Code).Scan(&id); err != nil {
		return 0, models.NewExtractError(models.ErrCodePersistence, "read model id", err)
	}
	m.ID = id
	return id, nil
}

// GetOrCreateCategory returns the id for the (name, parent, sub-category)
// identity, creating the row with a derived slug on first use.
func (s *Store) GetOrCreateCategory(name, parentName, subCategory string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		SELECT id FROM categories
		WHERE name = ? AND parent_name = ? AND sub_category = ?`,
		name, parentName, subCategory).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, models.NewExtractError(models.ErrCodePersistence, "read category", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO categories (name, parent_name, sub_category, slug)
		VALUES (?, ?, ?, ?)`,
		name, parentName, subCategory, models.Slugify(name, parentName, subCategory))
	if err != nil {
		return 0, models.NewExtractError(models.ErrCodePersistence, "create category", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, models.NewExtractError(models.ErrCodePersistence, "category id", err)
	}
	return id, nil
}

// UpsertOption merges an option keyed by (modelID, code). It reads the
// previously stored price first: when both the old and the new price are
// known and differ, exactly one price-history row is appended before the
// overwrite. Null prices never produce history.
func (s *Store) UpsertOption(modelID int64, o *models.Option) error {
	tx, err := s.db.Begin()
	if err != nil {
		return models.NewExtractError(models.ErrCodePersistence, "begin upsert", err)
	}
	defer tx.Rollback()

	var existingID int64
	var oldPrice sql.NullFloat64
	err = tx.QueryRow(`
		SELECT id, price FROM options WHERE model_id = ? AND code = ?`,
		modelID, o.Code).Scan(&existingID, &oldPrice)

	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(`
			INSERT INTO options (model_id, category_id, code, name, local_name, description,
				price, is_standard, is_exclusive, option_type, sub_category, image_ref, display_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			modelID, nullableID(o.CategoryID), o.Code, o.Name, o.LocalName, o.Description,
			nullablePrice(o.Price), o.IsStandard, o.IsExclusive, string(o.Type),
			o.SubCategory, o.ImageRef, o.DisplayOrder)
		if err != nil {
			return models.NewExtractError(models.ErrCodePersistence, "insert option", err)
		}
		o.ID, _ = res.LastInsertId()

	case err != nil:
		return models.NewExtractError(models.ErrCodePersistence, "read option", err)

	default:
		if oldPrice.Valid && o.Price != nil && oldPrice.Float64 != *o.Price {
			if _, err := tx.Exec(`
				INSERT INTO price_history (option_id, old_price, new_price)
				VALUES (?, ?, ?)`,
				existingID, oldPrice.Float64, *o.Price); err != nil {
				return models.NewExtractError(models.ErrCodePersistence, "append price history", err)
			}
		}
		if _, err := tx.Exec(`
			UPDATE options SET category_id = ?, name = ?, local_name = ?, description = ?,
				price = ?, is_standard = ?, is_exclusive = ?, option_type = ?,
				sub_category = ?, image_ref = ?, display_order = ?
			WHERE id = ?`,
			nullableID(o.CategoryID), o.Name, o.LocalName, o.Description,
			nullablePrice(o.Price), o.IsStandard, o.IsExclusive, string(o.Type),
			o.SubCategory, o.ImageRef, o.DisplayOrder, existingID); err != nil {
			return models.NewExtractError(models.ErrCodePersistence, "update option", err)
		}
		o.ID = existingID
	}

	if err := tx.Commit(); err != nil {
		return models.NewExtractError(models.ErrCodePersistence, "commit upsert", err)
	}
	return nil
}

// UpdateModelStats recomputes the denormalized per-type counters from the
// current option rows.
func (s *Store) UpdateModelStats(modelID int64) error {
	rows, err := s.db.Query(`
		SELECT option_type, COUNT(*) FROM options WHERE model_id = ? GROUP BY option_type`,
		modelID)
	if err != nil {
		return models.NewExtractError(models.ErrCodePersistence, "count options", err)
	}
	defer rows.Close()

	var stats models.ModelStats
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return models.NewExtractError(models.ErrCodePersistence, "scan counts", err)
		}
		switch models.OptionType(typ) {
		case models.TypeOption:
			stats.Options = count
		case models.TypeColorExt:
			stats.ExteriorColors = count
		case models.TypeColorInt:
			stats.InteriorColors = count
		case models.TypeWheel:
			stats.Wheels = count
		case models.TypeSeat:
			stats.Seats = count
		case models.TypePack:
			stats.Packs = count
		case models.TypeHood:
			stats.Hoods = count
		}
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return models.NewExtractError(models.ErrCodePersistence, "iterate counts", err)
	}

	_, err = s.db.Exec(`
		UPDATE models SET stat_options = ?, stat_color_ext = ?, stat_color_int = ?,
			stat_wheels = ?, stat_seats = ?, stat_packs = ?, stat_hoods = ?, stat_total = ?
		WHERE id = ?`,
		stats.Options, stats.ExteriorColors, stats.InteriorColors,
		stats.Wheels, stats.Seats, stats.Packs, stats.Hoods, stats.Total, modelID)
	if err != nil {
		return models.NewExtractError(models.ErrCodePersistence, "update stats", err)
	}
	return nil
}

func nullablePrice(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
