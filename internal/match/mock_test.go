package match

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/prospect-cli/pkg/apollo"
)

type mockApolloClient struct {
	mock.Mock
}

func (m *mockApolloClient) PeopleMatch(ctx context.Context, req apollo.MatchRequest) (*apollo.MatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apollo.MatchResponse), args.Error(1)
}

func (m *mockApolloClient) BulkMatch(ctx context.Context, req apollo.BulkMatchRequest) (*apollo.BulkMatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apollo.BulkMatchResponse), args.Error(1)
}
