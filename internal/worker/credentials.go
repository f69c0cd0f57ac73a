package worker

import (
	"context"
	"errors"

	"flowline/internal/actions"
	"flowline/internal/common"
	"flowline/internal/server/dao"
)

// credentialStore adapts the credential DAO to the lookup contract the
// action handlers expect.
type credentialStore struct {
	dao dao.CredentialDao
}

func NewCredentialStore(d dao.CredentialDao) actions.CredentialStore {
	return &credentialStore{dao: d}
}

func (s *credentialStore) Find(ctx context.Context, userID, platform string) (map[string]any, error) {
	credential, err := s.dao.Find(ctx, userID, platform)
	if err != nil {
		var errNo common.ErrNo
		if errors.As(err, &errNo) && errNo.ErrCode == common.CredentialNotExists {
			return nil, actions.ErrCredentialsNotFound
		}
		return nil, err
	}
	return credential.DataMap()
}
