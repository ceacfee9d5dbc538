package spec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/readinglog/spec"
)

// TestOpenAPI_DescribesEveryRoute guards against a route being added to the
// router without being documented.
func TestOpenAPI_DescribesEveryRoute(t *testing.T) {
	require.NotEmpty(t, spec.OpenAPI)
	doc := string(spec.OpenAPI)

	assert.Contains(t, doc, "openapi: 3.0.3")
	for _, path := range []string{
		"/healthz:", "/openapi.yaml:", "/books:", "/books/{id}:",
		"/reading-logs:", "/reading-logs/book/{id}:", "/reading-logs/stats:",
		"/goals:", "/goals/progress:", "/goals/{id}:", "/goals/{id}/progress:",
		"/export:",
	} {
		assert.Contains(t, doc, "  "+path, "missing path %s", path)
	}
}
