package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/FestivalGargoyle/pkg/beerlist"
	"droscher.com/FestivalGargoyle/pkg/model"
)

// Preference keys. Conceptual names, persisted as-is in the settings table.
const (
	settingSortOrder       = "sort_order"
	settingFilterText      = "filter_text"
	settingStylesToHide    = "styles_to_hide"
	settingLastFeedDigest  = "last_feed_digest"
	settingNextUpdateTime  = "next_update_time"
	settingHideUnavailable = "hide_unavailable"
)

func (r *Repository) getSetting(ctx context.Context, key string, fallback string) (string, error) {
	var setting model.Setting

	result := r.DB.WithContext(ctx).First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fallback, nil
		}

		return fallback, result.Error
	}

	return setting.Value, nil
}

func (r *Repository) setSetting(ctx context.Context, key string, value string) error {
	setting := model.Setting{Key: key, Value: value}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting)

	return result.Error
}

// SortOrder returns the persisted sort order, falling back to the default
// when nothing is stored or the stored value no longer parses.
func (r *Repository) SortOrder(ctx context.Context) (beerlist.SortOrder, error) {
	value, err := r.getSetting(ctx, settingSortOrder, beerlist.SortBreweryAsc.String())
	if err != nil {
		return beerlist.SortBreweryAsc, err
	}

	order, err := beerlist.ParseSortOrder(value)
	if err != nil {
		r.Logger.Warn("discarding unparseable stored sort order", zap.String("value", value))

		return beerlist.SortBreweryAsc, nil
	}

	return order, nil
}

func (r *Repository) SetSortOrder(ctx context.Context, order beerlist.SortOrder) error {
	return r.setSetting(ctx, settingSortOrder, order.String())
}

func (r *Repository) FilterText(ctx context.Context) (string, error) {
	return r.getSetting(ctx, settingFilterText, "")
}

func (r *Repository) SetFilterText(ctx context.Context, text string) error {
	return r.setSetting(ctx, settingFilterText, text)
}

// StylesToHide returns the persisted style exclusion set. A corrupt stored
// value degrades to the empty set rather than propagating.
func (r *Repository) StylesToHide(ctx context.Context) ([]string, error) {
	value, err := r.getSetting(ctx, settingStylesToHide, "[]")
	if err != nil {
		return nil, err
	}

	var styles []string
	if err := json.Unmarshal([]byte(value), &styles); err != nil {
		r.Logger.Warn("discarding corrupt stored style set", zap.String("value", value), zap.Error(err))

		return nil, nil
	}

	return styles, nil
}

func (r *Repository) SetStylesToHide(ctx context.Context, styles []string) error {
	encoded, err := json.Marshal(styles)
	if err != nil {
		return err
	}

	return r.setSetting(ctx, settingStylesToHide, string(encoded))
}

func (r *Repository) LastFeedDigest(ctx context.Context) (string, error) {
	return r.getSetting(ctx, settingLastFeedDigest, "")
}

func (r *Repository) SetLastFeedDigest(ctx context.Context, digest string) error {
	return r.setSetting(ctx, settingLastFeedDigest, digest)
}

// NextUpdateTime returns the next scheduled feed check, defaulting to the
// epoch so a fresh install updates immediately.
func (r *Repository) NextUpdateTime(ctx context.Context) (time.Time, error) {
	value, err := r.getSetting(ctx, settingNextUpdateTime, "")
	if err != nil {
		return time.Unix(0, 0).UTC(), err
	}

	if value == "" {
		return time.Unix(0, 0).UTC(), nil
	}

	next, err := time.Parse(time.RFC3339, value)
	if err != nil {
		r.Logger.Warn("discarding unparseable stored update time", zap.String("value", value))

		return time.Unix(0, 0).UTC(), nil
	}

	return next, nil
}

func (r *Repository) SetNextUpdateTime(ctx context.Context, next time.Time) error {
	return r.setSetting(ctx, settingNextUpdateTime, next.UTC().Format(time.RFC3339))
}

func (r *Repository) HideUnavailable(ctx context.Context) (bool, error) {
	value, err := r.getSetting(ctx, settingHideUnavailable, "false")
	if err != nil {
		return false, err
	}

	return value == "true", nil
}

func (r *Repository) SetHideUnavailable(ctx context.Context, hide bool) error {
	value := "false"
	if hide {
		value = "true"
	}

	return r.setSetting(ctx, settingHideUnavailable, value)
}

// ListConfig assembles the persisted preferences into a complete beer-list
// Config.
func (r *Repository) ListConfig(ctx context.Context) (beerlist.Config, error) {
	config := beerlist.DefaultConfig()

	order, err := r.SortOrder(ctx)
	if err != nil {
		return config, err
	}

	text, err := r.FilterText(ctx)
	if err != nil {
		return config, err
	}

	styles, err := r.StylesToHide(ctx)
	if err != nil {
		return config, err
	}

	hideUnavailable, err := r.HideUnavailable(ctx)
	if err != nil {
		return config, err
	}

	config.Sort = order
	config.SearchText = text
	config.StylesToHide = styles

	if hideUnavailable {
		config.Status = beerlist.ShowAvailableOnly
	}

	return config, nil
}
