package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGomailSetsMessageID(t *testing.T) {
	msg := toGomail(testMessage())

	id := messageID(msg)
	require.NotEmpty(t, id, "smtp deliveries must record a message id")
	assert.True(t, strings.HasPrefix(id, "<"))
	assert.True(t, strings.HasSuffix(id, "@staffeye>"))

	assert.Equal(t, []string{"reports@staffeye.io"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"admin@x.com"}, msg.GetHeader("To"))
}

func TestLegacySenderUsesSSLOn465(t *testing.T) {
	s := NewLegacySender("smtp.example.com", 465, "u", "p")
	assert.True(t, s.dialer.SSL)

	s = NewLegacySender("smtp.example.com", 587, "u", "p")
	assert.False(t, s.dialer.SSL)
}
