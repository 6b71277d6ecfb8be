package restapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"
)

var toValidate = map[string]string{
	"aud": "api://default",
	"cid": os.Getenv("OKTA_CLIENT_ID"),
}

// verifyHeaderToken wraps a handler so it only runs once verify approves
// the request's bearer token.
func verifyHeaderToken(realHandler func(c *gin.Context)) func(c *gin.Context) {
	return func(c *gin.Context) {
		if verify(c) {
			realHandler(c)
		}
	}
}

// verify checks the request's Authorization header. DISPATCH_ENV=DEV skips
// verification entirely for local development; DISPATCH_ENV=QA compares the
// token against DISPATCH_QA_TOKEN instead of calling out to Okta, so a QA
// environment can be exercised without a live Okta tenant. Anything else
// goes through full Okta access-token verification.
func verify(c *gin.Context) bool {
	if os.Getenv("DISPATCH_ENV") == "DEV" {
		return true
	}

	token := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(token, "Bearer ") {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return false
	}
	token = strings.TrimPrefix(token, "Bearer ")

	if os.Getenv("DISPATCH_ENV") == "QA" {
		return token == os.Getenv("DISPATCH_QA_TOKEN")
	}

	verifierSetup := jwtverifier.JwtVerifier{
		Issuer:           "https://" + os.Getenv("OKTA_DOMAIN") + "/oauth2/default",
		ClaimsToValidate: toValidate,
	}
	verifier := verifierSetup.New()
	if _, err := verifier.VerifyAccessToken(token); err != nil {
		c.String(http.StatusForbidden, err.Error())
		return false
	}
	return true
}
