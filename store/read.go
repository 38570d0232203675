package store

import (
	"database/sql"
	"encoding/json"

	"github.com/LouisZerri/porsche-options-sub000/models"
)

// ModelByCode loads a model row, or nil when the code is unknown.
func (s *Store) ModelByCode(code string) (*models.Model, error) {
	var m models.Model
	var techJSON, equipJSON string
	err := s.db.QueryRow(`
		SELECT id, code, name, family, base_price, year, technical_data, standard_equipment,
			stat_options, stat_color_ext, stat_color_int, stat_wheels, stat_seats,
			stat_packs, stat_hoods, stat_total, created_at, updated_at
		FROM models WHERE code = ?`, code).Scan(
		&m.ID, &m.Code, &m.Name, &m.Family, &m.BasePrice, &m.Year, &techJSON, &equipJSON,
		&m.Stats.Options, &m.Stats.ExteriorColors, &m.Stats.InteriorColors, &m.Stats.Wheels,
		&m.Stats.Seats, &m.Stats.Packs, &m.Stats.Hoods, &m.Stats.Total,
		&m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodePersistence, "read model", err)
	}
	if err := json.Unmarshal([]byte(techJSON), &m.TechnicalData); err != nil {
		m.TechnicalData = map[string]string{}
	}
	if err := json.Unmarshal([]byte(equipJSON), &m.StandardEquipment); err != nil {
		m.StandardEquipment = nil
	}
	return &m, nil
}

// OptionsByModel returns the model's options ordered by display order.
func (s *Store) OptionsByModel(modelID int64) ([]*models.Option, error) {
	rows, err := s.db.Query(`
		SELECT id, model_id, COALESCE(category_id, 0), code, name, local_name, description,
			price, is_standard, is_exclusive, option_type, sub_category, image_ref, display_order
		FROM options WHERE model_id = ? ORDER BY display_order`, modelID)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodePersistence, "read options", err)
	}
	defer rows.Close()

	var out []*models.Option
	for rows.Next() {
		var o models.Option
		var price sql.NullFloat64
		var typ string
		if err := rows.Scan(&o.ID, &o.ModelID, &o.CategoryID, &o.Code, &o.Name, &o.LocalName,
			&o.Description, &price, &o.IsStandard, &o.IsExclusive, &typ,
			&o.SubCategory, &o.ImageRef, &o.DisplayOrder); err != nil {
			return nil, models.NewExtractError(models.ErrCodePersistence, "scan option", err)
		}
		if price.Valid {
			o.Price = models.Price(price.Float64)
		}
		o.Type = models.OptionType(typ)
		out = append(out, &o)
	}
	return out, rows.Err()
}

// HistoryByOption returns the option's price changes, oldest first.
func (s *Store) HistoryByOption(optionID int64) ([]*models.PriceHistory, error) {
	rows, err := s.db.Query(`
		SELECT id, option_id, old_price, new_price, changed_at
		FROM price_history WHERE option_id = ? ORDER BY id`, optionID)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodePersistence, "read history", err)
	}
	defer rows.Close()

	var out []*models.PriceHistory
	for rows.Next() {
		var h models.PriceHistory
		if err := rows.Scan(&h.ID, &h.OptionID, &h.OldPrice, &h.NewPrice, &h.ChangedAt); err != nil {
			return nil, models.NewExtractError(models.ErrCodePersistence, "scan history", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}
