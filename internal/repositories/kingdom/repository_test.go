package kingdom_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	"github.com/KirkDiggler/kingdom-api/internal/pkg/clock"
	"github.com/KirkDiggler/kingdom-api/internal/repositories/kingdom"
	"github.com/KirkDiggler/kingdom-api/internal/testutils"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// RepositoryTestSuite runs the same behaviour against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() (kingdom.Repository, func())
	repo    kingdom.Repository
	cleanup func()
	ctx     context.Context
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (kingdom.Repository, func()) {
			return kingdom.NewInMemory(&clock.Fixed{At: testNow}), func() {}
		},
	})
}

func TestRedisRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() (kingdom.Repository, func()) {
		client, cleanup := testutils.CreateTestRedisClient(s.T())
		repo, err := kingdom.NewRedis(&kingdom.RedisConfig{
			Client: client,
			Clock:  &clock.Fixed{At: testNow},
		})
		s.Require().NoError(err)
		return repo, cleanup
	}
	suite.Run(t, s)
}

func TestSQLiteRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() (kingdom.Repository, func()) {
		db, err := kingdom.OpenSQLite(filepath.Join(s.T().TempDir(), "kingdoms.db"))
		s.Require().NoError(err)
		repo, err := kingdom.NewSQLite(context.Background(), &kingdom.SQLiteConfig{
			DB:    db,
			Clock: &clock.Fixed{At: testNow},
		})
		s.Require().NoError(err)
		return repo, func() { _ = db.Close() }
	}
	suite.Run(t, s)
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.cleanup = s.newRepo()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RepositoryTestSuite) create(id, username string, power int) *entities.Kingdom {
	k := testutils.NewKingdom(id, username, entities.FactionNorman)
	k.Power = power
	out, err := s.repo.Create(s.ctx, kingdom.CreateInput{Kingdom: k})
	s.Require().NoError(err)
	return out.Kingdom
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	created := s.create("kdm_1", "arthur", 1200)
	s.Equal(testNow.Unix(), created.CreatedAt)
	s.Equal(testNow.Unix(), created.UpdatedAt)
	s.Equal(int64(1), created.Version)

	got, err := s.repo.Get(s.ctx, kingdom.GetInput{ID: "kdm_1"})
	s.Require().NoError(err)
	s.Equal(created, got.Kingdom)

	byName, err := s.repo.GetByUsername(s.ctx, kingdom.GetByUsernameInput{Username: "arthur"})
	s.Require().NoError(err)
	s.Equal("kdm_1", byName.Kingdom.ID)
	s.Len(byName.Kingdom.Buildings, 6)
}

func (s *RepositoryTestSuite) TestCreateRejectsDuplicates() {
	s.create("kdm_1", "arthur", 0)

	_, err := s.repo.Create(s.ctx, kingdom.CreateInput{
		Kingdom: testutils.NewKingdom("kdm_2", "arthur", entities.FactionViking),
	})
	s.True(errors.IsAlreadyExists(err))

	_, err = s.repo.Create(s.ctx, kingdom.CreateInput{
		Kingdom: testutils.NewKingdom("kdm_1", "lancelot", entities.FactionViking),
	})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestCreateValidates() {
	testCases := []struct {
		name    string
		kingdom *entities.Kingdom
	}{
		{name: "nil", kingdom: nil},
		{name: "no id", kingdom: &entities.Kingdom{Username: "arthur"}},
		{name: "no username", kingdom: &entities.Kingdom{ID: "kdm_1"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.Create(s.ctx, kingdom.CreateInput{Kingdom: tc.kingdom})
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, kingdom.GetInput{ID: "kdm_404"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.GetByUsername(s.ctx, kingdom.GetByUsernameInput{Username: "nobody"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, kingdom.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestUpdate() {
	created := s.create("kdm_1", "arthur", 100)

	changed := created.Clone()
	changed.Resources[entities.ResourceGold] = 42
	changed.Power = 900
	changed.Ticks = 7
	changed.CreatedAt = 1

	out, err := s.repo.Update(s.ctx, kingdom.UpdateInput{Kingdom: changed})
	s.Require().NoError(err)
	s.Equal(created.CreatedAt, out.Kingdom.CreatedAt)
	s.Equal(int64(2), out.Kingdom.Version)

	got, err := s.repo.Get(s.ctx, kingdom.GetInput{ID: "kdm_1"})
	s.Require().NoError(err)
	s.Equal(42, got.Kingdom.Resources[entities.ResourceGold])
	s.Equal(900, got.Kingdom.Power)
	s.Equal(uint64(7), got.Kingdom.Ticks)

	// stored copy is independent of the caller's value
	changed.Resources[entities.ResourceGold] = 0
	got, err = s.repo.Get(s.ctx, kingdom.GetInput{ID: "kdm_1"})
	s.Require().NoError(err)
	s.Equal(42, got.Kingdom.Resources[entities.ResourceGold])
}

func (s *RepositoryTestSuite) TestUpdateRejections() {
	created := s.create("kdm_1", "arthur", 0)

	renamed := created.Clone()
	renamed.Username = "mordred"
	_, err := s.repo.Update(s.ctx, kingdom.UpdateInput{Kingdom: renamed})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Update(s.ctx, kingdom.UpdateInput{
		Kingdom: testutils.NewKingdom("kdm_404", "ghost", entities.FactionSaxon),
	})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestUpdateRejectsStaleVersion() {
	created := s.create("kdm_1", "arthur", 0)

	first := created.Clone()
	first.Resources[entities.ResourceGold] = 10
	second := created.Clone()
	second.Resources[entities.ResourceGold] = 99

	_, err := s.repo.Update(s.ctx, kingdom.UpdateInput{Kingdom: first})
	s.Require().NoError(err)

	_, err = s.repo.Update(s.ctx, kingdom.UpdateInput{Kingdom: second})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.True(kingdom.IsVersionConflict(err))

	got, err := s.repo.Get(s.ctx, kingdom.GetInput{ID: "kdm_1"})
	s.Require().NoError(err)
	s.Equal(10, got.Kingdom.Resources[entities.ResourceGold])
	s.Equal(int64(2), got.Kingdom.Version)

	// a fresh read can write again
	got.Kingdom.Resources[entities.ResourceGold] = 99
	out, err := s.repo.Update(s.ctx, kingdom.UpdateInput{Kingdom: got.Kingdom})
	s.Require().NoError(err)
	s.Equal(int64(3), out.Kingdom.Version)
}

func (s *RepositoryTestSuite) TestDelete() {
	s.create("kdm_1", "arthur", 0)

	_, err := s.repo.Delete(s.ctx, kingdom.DeleteInput{ID: "kdm_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, kingdom.GetInput{ID: "kdm_1"})
	s.True(errors.IsNotFound(err))

	// username is free again
	s.create("kdm_2", "arthur", 0)

	_, err = s.repo.Delete(s.ctx, kingdom.DeleteInput{ID: "kdm_1"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestListOrdersByPower() {
	empty, err := s.repo.List(s.ctx, kingdom.ListInput{})
	s.Require().NoError(err)
	s.Empty(empty.Kingdoms)

	s.create("kdm_b", "b", 500)
	s.create("kdm_a", "a", 500)
	s.create("kdm_c", "c", 2000)
	s.create("kdm_d", "d", 10)

	out, err := s.repo.List(s.ctx, kingdom.ListInput{})
	s.Require().NoError(err)
	ids := make([]string, 0, len(out.Kingdoms))
	for _, k := range out.Kingdoms {
		ids = append(ids, k.ID)
	}
	s.Equal([]string{"kdm_c", "kdm_a", "kdm_b", "kdm_d"}, ids)

	top, err := s.repo.List(s.ctx, kingdom.ListInput{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(top.Kingdoms, 2)
	s.Equal("kdm_c", top.Kingdoms[0].ID)
}
