package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// PlatformClient talks to the document platform that owns users, api keys
// and tokens. The service does not keep identities of its own.
type PlatformClient interface {
	GetRsaPublicKey(ctx context.Context) (*view.PublicKey, error)
	GetApiKeyByKey(apiKey string) (*view.PlatformApiKeyView, error)
	CheckAuthToken(ctx context.Context, token string) (bool, error)
	GetUserByPAT(ctx context.Context, token string) (*view.User, error)
	GetPatByPAT(ctx context.Context, token string) (*view.PersonalAccessTokenExtAuthView, error)
}

func NewPlatformClient(platformUrl, accessToken string) PlatformClient {
	parsedUrl, err := url.Parse(platformUrl)
	platformHost := ""
	if err != nil {
		log.Errorf("Can't parse platform url: %v", err)
	} else {
		platformHost = parsedUrl.Hostname()
	}

	tr := http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 60}
	client := resty.NewWithClient(&cl)
	if platformHost != "" {
		client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(platformHost))
	}

	return &platformClientImpl{platformUrl: platformUrl, accessToken: accessToken, client: client}
}

type platformClientImpl struct {
	platformUrl string
	accessToken string
	client      *resty.Client
}

func (p platformClientImpl) makeRequest(ctx context.Context) *resty.Request {
	req := p.client.R()
	req.SetContext(ctx)
	req.SetHeader("Authorization", "Bearer "+p.accessToken)
	return req
}

func (p platformClientImpl) GetRsaPublicKey(ctx context.Context) (*view.PublicKey, error) {
	req := p.makeRequest(ctx)
	resp, err := req.Get(fmt.Sprintf("%s/api/v2/auth/publicKey", p.platformUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to get rsa public key: %s", err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get rsa public key: status code %d", resp.StatusCode())
	}

	return &view.PublicKey{Value: resp.Body()}, nil
}

func (p platformClientImpl) GetApiKeyByKey(apiKey string) (*view.PlatformApiKeyView, error) {
	req := p.client.R()
	req.SetHeader("api-key", apiKey)

	resp, err := req.Get(fmt.Sprintf("%s/api/v2/auth/apiKey", p.platformUrl))
	if err != nil || resp.StatusCode() != http.StatusOK {
		if resp != nil && resp.StatusCode() == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var apiKeyView view.PlatformApiKeyView
	if err := json.Unmarshal(resp.Body(), &apiKeyView); err != nil {
		return nil, err
	}
	return &apiKeyView, nil
}

func (p platformClientImpl) CheckAuthToken(ctx context.Context, token string) (bool, error) {
	req := p.client.R()
	req.SetContext(ctx)
	req.SetHeader("Authorization", "Bearer "+token)

	resp, err := req.Get(fmt.Sprintf("%s/api/v2/auth/token", p.platformUrl))
	if err != nil {
		return false, err
	}
	return resp.StatusCode() == http.StatusOK, nil
}

func (p platformClientImpl) GetUserByPAT(ctx context.Context, token string) (*view.User, error) {
	pat, err := p.GetPatByPAT(ctx, token)
	if err != nil {
		return nil, err
	}
	if pat == nil {
		return nil, nil
	}
	return &pat.User, nil
}

func (p platformClientImpl) GetPatByPAT(ctx context.Context, token string) (*view.PersonalAccessTokenExtAuthView, error) {
	req := p.client.R()
	req.SetContext(ctx)
	req.SetHeader("X-Personal-Access-Token", token)

	resp, err := req.Get(fmt.Sprintf("%s/api/v2/auth/pat", p.platformUrl))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get pat info: status code %d", resp.StatusCode())
	}

	var pat view.PersonalAccessTokenExtAuthView
	if err := json.Unmarshal(resp.Body(), &pat); err != nil {
		return nil, err
	}
	return &pat, nil
}
