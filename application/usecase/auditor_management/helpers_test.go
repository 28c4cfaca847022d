package auditor_management

import (
	"fmt"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"github.com/securematch/securematch/domain/entity"
)

// sequenceGenerator hands out distinct fake key material without paying for
// RSA generation.
type sequenceGenerator struct {
	n atomic.Int64
}

func (g *sequenceGenerator) Generate() (*entity.KeyMaterial, error) {
	i := g.n.Add(1)
	return &entity.KeyMaterial{
		PublicKeyPEM: fmt.Sprintf("public-%d", i),
		Fingerprint:  fmt.Sprintf("SHA256:fp-%d", i),
		PrivateKey:   entity.PrivateKeyPEM(fmt.Sprintf("private-%d", i)),
	}, nil
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate() (*entity.KeyMaterial, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.KeyMaterial), args.Error(1)
}
