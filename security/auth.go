package security

import (
	"context"
	"crypto/x509"
	"fmt"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/client"
	"github.com/Netcracker/qubership-pdf-accessibility-service/secctx"

	"github.com/shaj13/go-guardian/v2/auth/strategies/jwt"
	"github.com/shaj13/go-guardian/v2/auth/strategies/union"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/fifo"
	_ "github.com/shaj13/libcache/lru"
)

var strategy union.Union

func SetupGoGuardian(platformClient client.PlatformClient) error {
	if platformClient == nil {
		return fmt.Errorf("platformClient is nil")
	}

	ctx := secctx.MakeSysadminContext(context.Background())

	rsaPublicKeyView, err := platformClient.GetRsaPublicKey(ctx)
	if err != nil {
		return fmt.Errorf("rsa public key error - %s", err.Error())
	}
	if rsaPublicKeyView == nil {
		return fmt.Errorf("rsa public key is empty")
	}

	rsaPublicKey, err := x509.ParsePKCS1PublicKey(rsaPublicKeyView.Value)
	if err != nil {
		return fmt.Errorf("ParsePKCS1PublicKey has error - %s", err.Error())
	}

	keeper := jwt.StaticSecret{
		ID:        "secret-id",
		Secret:    rsaPublicKey,
		Algorithm: jwt.RS256,
	}

	cache := libcache.LRU.New(1000)
	cache.SetTTL(time.Minute * 60)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})

	jwtStrategy := jwt.New(cache, keeper)
	apiKeyStrategy := NewPlatformApiKeyStrategy(platformClient)
	cookieTokenStrategy := NewCookieTokenStrategy(platformClient)
	patStrategy := NewPlatformPATStrategy(platformClient)
	strategy = union.New(jwtStrategy, apiKeyStrategy, cookieTokenStrategy, patStrategy)

	return nil
}
