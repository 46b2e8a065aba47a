package utils

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlag(t *testing.T) {
	args := []string{"--username:bob", "--action:accept", "--username:eve"}

	v, ok := Flag(args, "username")
	assert.True(t, ok)
	assert.Equal(t, "bob", v)

	v, ok = Flag(args, "action")
	assert.True(t, ok)
	assert.Equal(t, "accept", v)

	_, ok = Flag(args, "password")
	assert.False(t, ok)

	v, ok = Flag([]string{"--password:"}, "password")
	assert.True(t, ok, "empty value is still present")
	assert.Empty(t, v)
}

func TestWantsHelp(t *testing.T) {
	assert.True(t, WantsHelp([]string{"--username:bob", "-h"}))
	assert.True(t, WantsHelp([]string{"--help"}))
	assert.False(t, WantsHelp([]string{"--helpful"}))
	assert.False(t, WantsHelp(nil))
}

func TestPositional(t *testing.T) {
	assert.Equal(t, []string{"john", "doe"}, Positional([]string{"john", "--x:1", "doe", "-h"}))
	assert.Empty(t, Positional([]string{"--username:bob"}))
}

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  alice \nsecret\n"))

	assert.Equal(t, "alice", Ask(r, &out, "Enter username: "))
	assert.Equal(t, "secret", Ask(r, &out, "Enter password: "))
	assert.Equal(t, "", Ask(r, &out, "Enter password: "))
	assert.Equal(t, "Enter username: Enter password: Enter password: ", out.String())
}
