package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"go.openly.dev/pointy"
	"gorm.io/gorm"

	"droscher.com/FestivalGargoyle/pkg/beerlist"
	"droscher.com/FestivalGargoyle/pkg/model"
	"droscher.com/FestivalGargoyle/pkg/repository"
)

type BeerTestSuite struct {
	RepositorySuite
}

func TestBeerTestSuite(t *testing.T) {
	suite.Run(t, new(BeerTestSuite))
}

func (suite *BeerTestSuite) TestQueryBeers_DefaultCriteria() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beers" LEFT JOIN "breweries" "Brewery" (.+) ORDER BY "Brewery"\.name asc, beers\.id asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "Brewery__id", "Brewery__name"}).
			AddRow(uint(1), "A Mild", uint(10), "Alpha Brewing").
			AddRow(uint(2), "A Best", uint(11), "Bravo Brewing"))

	criteria := beerlist.Criteria{Partition: beerlist.PartitionAll, Sort: beerlist.SortBreweryAsc}

	beers, err := suite.repository.QueryBeers(context.Background(), criteria)
	suite.Require().NoError(err)
	suite.Require().Len(beers, 2)
	suite.Equal("A Mild", beers[0].Name)
	suite.Equal("Alpha Brewing", beers[0].Brewery.Name)
	suite.Equal("A Best", beers[1].Name)
}

func (suite *BeerTestSuite) TestQueryBeers_AppliesEveryExclusion() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beers" (.+) ORDER BY beers\.name desc, beers\.id asc`).
		WithArgs(model.CategoryLowNo,
			model.StatusOrdered, model.StatusArrived, model.StatusSoldOut,
			"best",
			"%mild%", "%mild%", "%mild%", "%mild%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(uint(1), "A Mild"))

	criteria := beerlist.Criteria{
		Partition:      beerlist.PartitionLowNoAlcohol,
		Sort:           beerlist.SortNameDesc,
		SearchText:     "Mild",
		StylesToHide:   []string{"best"},
		StatusesToHide: model.UnavailableStatuses(),
	}

	beers, err := suite.repository.QueryBeers(context.Background(), criteria)
	suite.Require().NoError(err)
	suite.Len(beers, 1)
}

func (suite *BeerTestSuite) TestQueryBeers_BookmarkedPartition() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beers" (.+)`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(uint(3), "Kept One"))

	criteria := beerlist.Criteria{Partition: beerlist.PartitionBookmarked, Sort: beerlist.SortBreweryAsc}

	beers, err := suite.repository.QueryBeers(context.Background(), criteria)
	suite.Require().NoError(err)
	suite.Len(beers, 1)
}

func (suite *BeerTestSuite) TestQueryBeers_ErrorIsLoggedAndReturned() {
	suite.mock.ExpectQuery("^SELECT (.+)").WillReturnError(gorm.ErrInvalidDB)

	criteria := beerlist.Criteria{Partition: beerlist.PartitionAll, Sort: beerlist.SortBreweryAsc}

	beers, err := suite.repository.QueryBeers(context.Background(), criteria)
	suite.Require().Error(err)
	suite.Nil(beers)
	suite.GreaterOrEqual(suite.observedLogs.Len(), 1)
}

func (suite *BeerTestSuite) TestUpsertBeer_InsertsWithConflictOnFestivalID() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beers" (.+) ON CONFLICT \("festival_id"\) DO UPDATE SET (.+) RETURNING "id"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil,
			"b-77", "A Mild", "A dark mild", "mild", "Available", "cask", "beer", 3.5, "Gluten, Wheat",
			0, false, "", uint(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(1)))
	suite.mock.ExpectCommit()

	beer := model.Beer{
		FestivalID:  "b-77",
		Name:        "A Mild",
		Description: "A dark mild",
		Style:       "mild",
		StatusText:  model.StatusAvailable,
		Dispense:    "cask",
		Category:    model.CategoryBeer,
		ABV:         pointy.Float64(3.5),
		Allergens:   "Gluten, Wheat",
		BreweryID:   10,
	}

	result, err := suite.repository.UpsertBeer(context.Background(), beer)
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(uint(1), result.ID)
}

func (suite *BeerTestSuite) TestUpsertBrewery_InsertsWithConflictOnFestivalID() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "breweries" (.+) ON CONFLICT \("festival_id"\) DO UPDATE SET (.+) RETURNING "id"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, "p-9", "Alpha Brewing", "Family brewery").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(10)))
	suite.mock.ExpectCommit()

	brewery := model.Brewery{FestivalID: "p-9", Name: "Alpha Brewing", Description: "Family brewery"}

	result, err := suite.repository.UpsertBrewery(context.Background(), brewery)
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(uint(10), result.ID)
}

func (suite *BeerTestSuite) TestUpdateBeerRating_UpdatesRow() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`^UPDATE "beers" SET (.+) WHERE id = \$\d+`).
		WithArgs(4, sqlmock.AnyArg(), uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repository.UpdateBeerRating(context.Background(), 7, model.NewStarRating(4))
	suite.Require().NoError(err)
}

func (suite *BeerTestSuite) TestUpdateBeerRating_MissingBeerReturnsNotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`^UPDATE "beers" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectCommit()

	err := suite.repository.UpdateBeerRating(context.Background(), 404, model.NewStarRating(2))
	suite.Require().ErrorIs(err, repository.ErrBeerNotFound)
}

func (suite *BeerTestSuite) TestUpdateBeerWishList_UpdatesRow() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`^UPDATE "beers" SET (.+) WHERE id = \$\d+`).
		WithArgs(true, sqlmock.AnyArg(), uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repository.UpdateBeerWishList(context.Background(), 3, true)
	suite.Require().NoError(err)
}

func (suite *BeerTestSuite) TestGetBeerByID_ReturnsNotFoundSentinel() {
	suite.mock.ExpectQuery("^SELECT (.+)").WillReturnError(gorm.ErrRecordNotFound)

	beer, err := suite.repository.GetBeerByID(context.Background(), 99)
	suite.Require().ErrorIs(err, repository.ErrBeerNotFound)
	suite.Nil(beer)
}

func (suite *BeerTestSuite) TestGetDistinctStyles_ListsStyles() {
	suite.mock.ExpectQuery(`^SELECT DISTINCT (.+) FROM "beers" (.+) ORDER BY style asc`).
		WillReturnRows(sqlmock.NewRows([]string{"style"}).AddRow("best").AddRow("mild"))

	styles, err := suite.repository.GetDistinctStyles(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"best", "mild"}, styles)
}

func (suite *BeerTestSuite) TestGetDistinctAllergens_SplitsAndDeduplicates() {
	suite.mock.ExpectQuery(`^SELECT DISTINCT (.+) FROM "beers" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"allergens"}).
			AddRow("Gluten, Wheat").
			AddRow("gluten, oats").
			AddRow("Wheat"))

	allergens, err := suite.repository.GetDistinctAllergens(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"Gluten", "Wheat", "oats"}, allergens)
}
