package service

import (
	"account-storefront/internal/model"
	"strings"
)

// ParseBulk reads one credential per line as username:password or username|password.
// Lines without a separator or with an empty half are skipped.
func ParseBulk(raw string) []model.CredentialInput {
	var inputs []model.CredentialInput
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		sep := "|"
		if strings.Contains(line, ":") {
			sep = ":"
		}

		username, password, ok := strings.Cut(line, sep)
		if !ok {
			continue
		}
		username = strings.TrimSpace(username)
		password = strings.TrimSpace(password)
		if username == "" || password == "" {
			continue
		}

		inputs = append(inputs, model.CredentialInput{
			Username: username,
			Password: password,
		})
	}

	return inputs
}
