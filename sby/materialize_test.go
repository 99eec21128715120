package sby

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterialize(t *testing.T) {
	assert := assert.New(t)

	template := []byte("read_ilang rel_file.il\n[files]\nabs_file.il\n")
	job := Materialize(template, "add8", "/work/formal/sby/add8")

	assert.Equal("read_ilang add8.il\n[files]\n/work/formal/sby/add8.il\n", string(job))
}

func TestMaterialize_Idempotent(t *testing.T) {
	assert := assert.New(t)

	once := Materialize([]byte(DefaultTemplate), "add8", "/work/formal/sby/add8")
	twice := Materialize(once, "add8", "/work/formal/sby/add8")

	assert.Equal(once, twice)
}

func TestMaterialize_MissingToken(t *testing.T) {
	assert := assert.New(t)

	// A template without a token materializes unchanged in that region.
	// That is the inherited contract, not a repair site.
	template := []byte("[files]\nsomething_else.il\n")
	job := Materialize(template, "add8", "/work")
	assert.Equal(template, job)
}

func TestMissingTokens(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(MissingTokens([]byte(DefaultTemplate)))
	assert.Equal([]string{TOKEN_ABS_FILE}, MissingTokens([]byte("rel_file only\n")))
	assert.Equal([]string{TOKEN_REL_FILE, TOKEN_ABS_FILE}, MissingTokens([]byte("neither\n")))
}

func TestDefaultTemplate(t *testing.T) {
	assert := assert.New(t)

	assert.Contains(DefaultTemplate, "mode bmc")
	assert.Contains(DefaultTemplate, TOKEN_REL_FILE)
	assert.Contains(DefaultTemplate, TOKEN_ABS_FILE)
}

func FuzzMaterialize(f *testing.F) {
	f.Add(DefaultTemplate)
	f.Add("rel_file abs_file rel_file")
	f.Add("rel_rel_filefile")
	f.Add("")

	f.Fuzz(func(t *testing.T, template string) {
		job := Materialize([]byte(template), "add8", "/work/formal/sby/add8")

		// All tokens consumed, none manufactured.
		assert.NotContains(t, string(job), TOKEN_REL_FILE)
		assert.NotContains(t, string(job), TOKEN_ABS_FILE)

		// Materializing a materialized job is the identity.
		again := Materialize(job, "add8", "/work/formal/sby/add8")
		assert.Equal(t, job, again)

		if !strings.Contains(template, TOKEN_REL_FILE) && !strings.Contains(template, TOKEN_ABS_FILE) {
			assert.Equal(t, template, string(job))
		}
	})
}
