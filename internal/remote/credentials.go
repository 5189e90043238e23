package remote

import (
	"strings"

	"github.com/base-cli/base/internal/errors"
)

// CredentialMarker precedes the client id and secret in passport:install output.
const CredentialMarker = "Password grant client created successfully."

// Credentials is an issued OAuth client.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// ParseCredentials extracts the client id and secret from the text that
// follows CredentialMarker:
//
//	Password grant client created successfully.
//	Client ID: 3
//	Client secret: abc123
//
// Only this shape is recognized.
func ParseCredentials(output string) (Credentials, error) {
	_, rest, found := strings.Cut(output, CredentialMarker)
	if !found {
		return Credentials{}, errors.New(errors.ECredentialParse, "parse-credentials", "passport:install",
			"marker "+`"`+CredentialMarker+`"`+" not found in output")
	}

	var lines []string
	for _, line := range strings.Split(rest, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) < 2 {
		return Credentials{}, errors.New(errors.ECredentialParse, "parse-credentials", "passport:install",
			"expected client id and secret lines after marker")
	}

	creds := Credentials{ClientID: afterColon(lines[0]), ClientSecret: afterColon(lines[1])}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return Credentials{}, errors.New(errors.ECredentialParse, "parse-credentials", "passport:install",
			"client id or secret is empty")
	}
	return creds, nil
}

func afterColon(line string) string {
	_, v, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(v)
}
