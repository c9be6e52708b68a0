//go:build unit || !integration

package client

import (
	"context"
	"errors"

	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/models"
)

func (s *ClientSuite) TestFetchLogsRequiresSigner() {
	readOnly := s.newClient(nil)
	_, _, err := readOnly.FetchLogs(context.Background(), models.JobID{1})
	s.True(errors.Is(err, griderrors.ErrConfiguration))
}

func (s *ClientSuite) TestFetchLogsRequiresLogService() {
	_, _, err := s.client.FetchLogs(context.Background(), models.JobID{1})
	s.True(errors.Is(err, griderrors.ErrConfiguration))
}
