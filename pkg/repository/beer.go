package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/FestivalGargoyle/pkg/beerlist"
	"droscher.com/FestivalGargoyle/pkg/model"
)

var ErrBeerNotFound = errors.New("beer not found")

// feedColumns are the beer columns owned by the festival feed. A reimport
// overwrites exactly these; rating, wish-list flag, and comments belong to
// the user and survive.
var feedColumns = []string{
	"name", "description", "style", "status_text", "dispense",
	"category", "abv", "allergens", "brewery_id", "updated_at",
}

// QueryBeers runs the list query for one Criteria: partition predicate,
// status and style exclusion, case-insensitive text match over beer
// name/style/description and brewery name, then the configured order with
// an id tie-break so equal keys always come back in the same sequence.
func (r *Repository) QueryBeers(ctx context.Context, criteria beerlist.Criteria) ([]*model.Beer, error) {
	query := r.DB.WithContext(ctx).Model(&model.Beer{}).Joins("Brewery")

	query = applyPartition(query, criteria.Partition)

	if len(criteria.StatusesToHide) > 0 {
		query = query.Where("beers.status_text NOT IN ?", criteria.StatusesToHide)
	}

	if len(criteria.StylesToHide) > 0 {
		query = query.Where("beers.style NOT IN ?", criteria.StylesToHide)
	}

	if text := strings.TrimSpace(criteria.SearchText); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		query = query.Where(
			`lower(beers.name) LIKE ? OR lower(beers.style) LIKE ? OR lower(beers.description) LIKE ? OR lower("Brewery".name) LIKE ?`,
			pattern, pattern, pattern, pattern)
	}

	var beers []*model.Beer

	result := query.Order(orderClause(criteria.Sort)).Order("beers.id asc").Find(&beers)
	if result.Error != nil {
		r.Logger.Error("error querying beer list", zap.Error(result.Error))

		return nil, result.Error
	}

	return beers, nil
}

func applyPartition(query *gorm.DB, partition beerlist.Partition) *gorm.DB {
	switch partition {
	case beerlist.PartitionBookmarked:
		return query.Where("beers.on_wish_list = ?", true)
	case beerlist.PartitionLowNoAlcohol:
		return query.Where("beers.category = ?", model.CategoryLowNo)
	case beerlist.PartitionAll:
	}

	return query
}

func orderClause(order beerlist.SortOrder) string {
	direction := "asc"
	if !order.Ascending() {
		direction = "desc"
	}

	column := `"Brewery".name`

	switch order.Field() {
	case beerlist.SortFieldName:
		column = "beers.name"
	case beerlist.SortFieldABV:
		column = "beers.abv"
	case beerlist.SortFieldRating:
		column = "beers.rating"
	case beerlist.SortFieldBrewery:
	}

	return fmt.Sprintf("%s %s", column, direction)
}

func (r *Repository) GetBeerByID(ctx context.Context, beerID uint) (*model.Beer, error) {
	var beer model.Beer

	result := r.DB.WithContext(ctx).Joins("Brewery").First(&beer, beerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBeerNotFound
		}

		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) GetBeerByFestivalID(ctx context.Context, festivalID string) (*model.Beer, error) {
	var beer model.Beer

	result := r.DB.WithContext(ctx).Joins("Brewery").Where("beers.festival_id = ?", festivalID).First(&beer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBeerNotFound
		}

		return nil, result.Error
	}

	return &beer, nil
}

// GetDistinctStyles lists every non-empty style present, for the style
// filter dialog.
func (r *Repository) GetDistinctStyles(ctx context.Context) ([]string, error) {
	var styles []string

	result := r.DB.WithContext(ctx).Model(&model.Beer{}).
		Where("style <> ''").
		Distinct("style").
		Order("style asc").
		Pluck("style", &styles)
	if result.Error != nil {
		return nil, result.Error
	}

	return styles, nil
}

// GetDistinctAllergens lists every allergen name present across the list.
// Allergens are stored comma-separated per beer, so the split and
// deduplication happen here rather than in SQL.
func (r *Repository) GetDistinctAllergens(ctx context.Context) ([]string, error) {
	var raw []string

	result := r.DB.WithContext(ctx).Model(&model.Beer{}).
		Where("allergens <> ''").
		Distinct("allergens").
		Pluck("allergens", &raw)
	if result.Error != nil {
		return nil, result.Error
	}

	seen := make(map[string]string)

	for _, list := range raw {
		for _, allergen := range strings.Split(list, ",") {
			allergen = strings.TrimSpace(allergen)
			if allergen == "" {
				continue
			}

			key := strings.ToLower(allergen)
			if _, found := seen[key]; !found {
				seen[key] = allergen
			}
		}
	}

	allergens := make([]string, 0, len(seen))
	for _, allergen := range seen {
		allergens = append(allergens, allergen)
	}

	sort.Strings(allergens)

	return allergens, nil
}

// UpsertBrewery inserts the brewery or, when its festival id already
// exists, overwrites the existing row in place.
func (r *Repository) UpsertBrewery(ctx context.Context, brewery model.Brewery) (*model.Brewery, error) {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "festival_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "updated_at"}),
	}).Create(&brewery)

	if result.Error != nil {
		return nil, result.Error
	}

	return &brewery, nil
}

// UpsertBeer inserts the beer or, when its festival id already exists,
// overwrites the feed-owned columns while keeping the row's identity and
// the user's rating, wish-list flag, and comments.
func (r *Repository) UpsertBeer(ctx context.Context, beer model.Beer) (*model.Beer, error) {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "festival_id"}},
		DoUpdates: clause.AssignmentColumns(feedColumns),
	}).Create(&beer)

	if result.Error != nil {
		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) UpdateBeerRating(ctx context.Context, beerID uint, rating model.StarRating) error {
	return r.updateBeerColumn(ctx, beerID, "rating", rating.Stars())
}

func (r *Repository) UpdateBeerWishList(ctx context.Context, beerID uint, onWishList bool) error {
	return r.updateBeerColumn(ctx, beerID, "on_wish_list", onWishList)
}

func (r *Repository) UpdateBeerComments(ctx context.Context, beerID uint, comments string) error {
	return r.updateBeerColumn(ctx, beerID, "comments", comments)
}

func (r *Repository) updateBeerColumn(ctx context.Context, beerID uint, column string, value any) error {
	result := r.DB.WithContext(ctx).Model(&model.Beer{}).Where("id = ?", beerID).Update(column, value)
	if result.Error != nil {
		r.Logger.Error("error updating beer", zap.Uint("beer_id", beerID), zap.String("column", column), zap.Error(result.Error))

		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBeerNotFound
	}

	return nil
}

// DeleteAllBeers hard-deletes every beer row. Only the clean reimport path
// uses it, inside a transaction.
func (r *Repository) DeleteAllBeers(ctx context.Context) error {
	result := r.DB.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&model.Beer{})

	return result.Error
}

func (r *Repository) DeleteAllBreweries(ctx context.Context) error {
	result := r.DB.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&model.Brewery{})

	return result.Error
}
