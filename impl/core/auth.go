package core

import (
	"crypto/subtle"
	"fmt"
)

const agentUsername = "voice-agent"

// AuthenticateByToken checks the bearer token sent by the voice platform.
func (c *Core) AuthenticateByToken(token string) (string, error) {
	if c.authKey == "" {
		return "", fmt.Errorf("api key not configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) != 1 {
		return "", fmt.Errorf("invalid api key")
	}
	return agentUsername, nil
}
