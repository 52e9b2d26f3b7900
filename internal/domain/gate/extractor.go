package gate

import "strings"

const bearerScheme = "Bearer"

// ExtractBearer pulls the token out of a raw Authorization header value.
// The expected shape is exactly "Bearer <token>": case-sensitive scheme,
// a single space, no further whitespace. The token substring is returned
// unmodified; whether it is a syntactically valid JWT is the verifier's
// concern, not the extractor's.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != bearerScheme || token == "" {
		return "", ErrMalformedHeader
	}
	if strings.ContainsAny(token, " \t") {
		return "", ErrMalformedHeader
	}

	return token, nil
}
