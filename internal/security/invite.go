package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Word lists for generating human-readable invite codes
var inviteAdjectives = []string{
	"amber", "bold", "bright", "calm", "clever", "cosmic", "crisp", "eager",
	"fleet", "gentle", "golden", "keen", "lively", "lucid", "mellow", "noble",
	"polar", "quick", "quiet", "rapid", "royal", "sharp", "solar", "steady",
	"stellar", "swift", "tidy", "vivid", "warm", "wise",
}

var inviteNouns = []string{
	"atlas", "beacon", "canyon", "cedar", "comet", "delta", "ember", "falcon",
	"garnet", "harbor", "island", "jasper", "lagoon", "maple", "meadow", "nebula",
	"orchid", "pebble", "quartz", "raven", "ridge", "river", "sparrow", "summit",
	"thicket", "tundra", "valley", "willow", "zenith", "zephyr",
}

// GenerateInviteCode creates a share invite code in the format
// "adjective-noun-NNNN", readable enough to pass along verbally.
func GenerateInviteCode() (string, error) {
	adjective, err := randomElement(inviteAdjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(inviteNouns)
	if err != nil {
		return "", err
	}

	num, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%04d", adjective, noun, num.Int64()), nil
}

// GenerateResetToken creates a random token for password reset links
func GenerateResetToken() (string, error) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	token := make([]byte, 32)

	for i := range token {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		token[i] = chars[num.Int64()]
	}

	return string(token), nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
