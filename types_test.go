package agentview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMessageID(t *testing.T) {
	id := GenerateMessageID()
	assert.True(t, strings.HasPrefix(id, "msg-"))
	assert.NotEqual(t, id, GenerateMessageID())
}

func TestGenerateThreadID(t *testing.T) {
	id := GenerateThreadID()
	assert.True(t, strings.HasPrefix(id, "thread-"))
	assert.NotEqual(t, id, GenerateThreadID())
}
