package clients_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	"github.com/KirkDiggler/trainer-api/internal/pkg/clock"
	"github.com/KirkDiggler/trainer-api/internal/redis"
	"github.com/KirkDiggler/trainer-api/internal/repositories/clients"
	"github.com/KirkDiggler/trainer-api/internal/testutils"
)

type AuditTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client redis.Client
	repo   clients.Repository
	ctx    context.Context
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditTestSuite))
}

func (s *AuditTestSuite) SetupTest() {
	s.client, s.mr = testutils.CreateTestRedisClient(s.T())
	s.ctx = context.Background()

	repo, err := clients.NewRedisRepository(&clients.Config{
		Client: s.client,
		Clock:  clock.NewFixed(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)
	s.repo = repo

	for _, id := range []string{"cl_1", "cl_2"} {
		_, err := s.repo.Create(s.ctx, clients.CreateInput{Client: &entities.Client{
			ID:        id,
			TrainerID: testTrainerID,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     id + "@example.com",
		}})
		s.Require().NoError(err)
	}
}

func (s *AuditTestSuite) TestCleanStore() {
	report, err := clients.Audit(s.ctx, s.client, true)
	s.Require().NoError(err)
	s.Assert().Equal(2, report.Checked)
	s.Assert().True(report.Clean())
	s.Assert().False(report.Repaired)
}

func (s *AuditTestSuite) TestFindsProblemsWithoutRepairing() {
	s.Require().NoError(s.mr.Set("client:cl_1", "{not json"))
	s.mr.Del("client:cl_2")

	report, err := clients.Audit(s.ctx, s.client, false)
	s.Require().NoError(err)

	s.Assert().Equal([]string{"client:cl_1"}, report.Corrupted)
	s.Assert().Equal([]clients.DanglingEntry{{TrainerID: testTrainerID, ClientID: "cl_2"}}, report.Dangling)
	s.Assert().False(report.Repaired)
	s.Assert().True(s.mr.Exists("client:cl_1"))
}

func (s *AuditTestSuite) TestRepair() {
	s.Require().NoError(s.mr.Set("client:cl_1", `{"first_name":"no ids"}`))
	s.mr.Del("client:cl_2")

	report, err := clients.Audit(s.ctx, s.client, true)
	s.Require().NoError(err)
	s.Assert().True(report.Repaired)

	s.Assert().False(s.mr.Exists("client:cl_1"))
	members, err := s.mr.Members("trainer_clients:" + testTrainerID)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"cl_1"}, members)

	report, err = clients.Audit(s.ctx, s.client, false)
	s.Require().NoError(err)
	s.Assert().Equal([]string(nil), report.Corrupted)
	s.Assert().Len(report.Dangling, 1)
}

func (s *AuditTestSuite) TestStorageFailure() {
	s.mr.SetError("LOADING Redis is loading the dataset in memory")
	defer s.mr.SetError("")

	_, err := clients.Audit(s.ctx, s.client, false)
	s.Require().Error(err)
	s.Assert().True(errors.IsStorage(err))
}

func (s *AuditTestSuite) TestNilClient() {
	_, err := clients.Audit(s.ctx, nil, false)
	s.Assert().True(errors.IsInvalidArgument(err))
}
