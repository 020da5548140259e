package security

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Netcracker/qubership-pdf-accessibility-service/client"

	"github.com/shaj13/go-guardian/v2/auth"
)

func NewPlatformPATStrategy(platformClient client.PlatformClient) auth.Strategy {
	return &platformPATStrategyImpl{platformClient: platformClient}
}

type platformPATStrategyImpl struct {
	platformClient client.PlatformClient
}

func (a platformPATStrategyImpl) Authenticate(ctx context.Context, r *http.Request) (auth.Info, error) {
	token := r.Header.Get("X-Personal-Access-Token")
	if token == "" {
		return nil, fmt.Errorf("authentication failed: %v is empty", "X-Personal-Access-Token")
	}

	user, err := a.platformClient.GetUserByPAT(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("authentication failed: personal access token is not valid")
	}

	return auth.NewDefaultUser(user.Name, user.Id, []string{}, auth.Extensions{}), nil
}
