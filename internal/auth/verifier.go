package auth

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates access tokens issued by the OAuth provider. Keys come
// either from a static PEM/JWKS document or from a JWKS URL resolved by kid.
type Verifier struct {
	PublicKeyPEMOrJWKS string
	JWKSURL            string
	Audience           string
	Issuer             string

	staticKey *rsa.PublicKey
	keys      keyCache
}

func (v *Verifier) loadStatic() error {
	if v.staticKey != nil {
		return nil
	}
	doc := strings.TrimSpace(v.PublicKeyPEMOrJWKS)
	if doc == "" {
		return nil
	}
	if strings.HasPrefix(doc, "{") {
		var set jwkSet
		if err := json.Unmarshal([]byte(doc), &set); err != nil {
			return err
		}
		if len(set.Keys) == 0 {
			return errors.New("jwks document has no keys")
		}
		k, err := rsaFromJWK(set.Keys[0])
		if err != nil {
			return err
		}
		v.staticKey = k
		return nil
	}
	k, err := jwt.ParseRSAPublicKeyFromPEM([]byte(doc))
	if err != nil {
		return err
	}
	v.staticKey = k
	return nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	if err := v.loadStatic(); err == nil && v.staticKey != nil {
		return v.staticKey, nil
	}
	if v.JWKSURL == "" {
		return nil, errors.New("no verification key configured")
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token has no kid")
	}
	if k, ok := v.keys.get(kid); ok {
		return k, nil
	}
	set, err := fetchJWKS(v.JWKSURL)
	if err != nil {
		return nil, err
	}
	for _, j := range set.Keys {
		if j.Kid != kid {
			continue
		}
		k, err := rsaFromJWK(j)
		if err != nil {
			return nil, err
		}
		v.keys.set(kid, k)
		return k, nil
	}
	return nil, errors.New("no key matches kid")
}

// Middleware rejects requests without a valid token and resolves the
// Principal for everything downstream. The token's email claim is the
// user key; a token without one is treated as unauthenticated.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		parsed, err := jwt.Parse(tok, v.keyFunc, jwt.WithAudience(v.Audience), jwt.WithIssuer(v.Issuer))
		if err != nil || !parsed.Valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		email, _ := claims["email"].(string)
		if email == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		r = r.WithContext(WithPrincipal(r.Context(), Principal{Email: email}))
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	// browser requests carry the token in a cookie instead
	if c, err := r.Cookie("access_token"); err == nil {
		return c.Value
	}
	return ""
}
