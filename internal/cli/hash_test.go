package cli

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCmdHash_OutputVerifies(t *testing.T) {
	// Save and restore seam
	oldGen := generateHash
	t.Cleanup(func() { generateHash = oldGen })
	generateHash = func(password string, cost int) (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	c := cmdHash()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"gupta"})
	if err := c.Execute(); err != nil {
		t.Fatalf("hash: %v", err)
	}

	hash := strings.TrimSpace(out.String())
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("output %q is not a bcrypt hash", hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("gupta")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")); err == nil {
		t.Fatalf("hash verified the wrong password")
	}
}

func TestCmdHash_RequiresArgument(t *testing.T) {
	c := cmdHash()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(nil)
	if err := c.Execute(); err == nil {
		t.Fatalf("hash without argument succeeded")
	}
}
