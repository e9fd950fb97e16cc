package modules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const applyFixture = `
kind: net/vlan
state: present
params:
  name: internal
  tag: 4093
  mtu: 1500
---
kind: sys/db
params:
  key: setup.run
  value: "false"
---
`

func TestDecodeDocuments(t *testing.T) {
	docs, err := DecodeDocuments(strings.NewReader(applyFixture))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "net/vlan", docs[0].Kind)
	assert.Equal(t, "present", docs[0].State)
	assert.Equal(t, "internal", docs[0].Params["name"])
	assert.Equal(t, 4093, docs[0].Params["tag"])

	assert.Equal(t, "sys/db", docs[1].Kind)
	assert.Equal(t, "", docs[1].State)
	assert.Equal(t, "false", docs[1].Params["value"])
}

func TestDecodeDocumentsMissingKind(t *testing.T) {
	_, err := DecodeDocuments(strings.NewReader("params:\n  name: internal\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrMissingParameter)
}

func TestDecodeDocumentsEmpty(t *testing.T) {
	docs, err := DecodeDocuments(strings.NewReader("---\n---\n"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}
