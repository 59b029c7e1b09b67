package micronaut

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staticlint/internal/core/config"
	"staticlint/internal/engine/finding"
	"staticlint/internal/engine/syntax"
)

func defaultRule() *Rule {
	return Configure(config.DefaultEndpointAnnotations, config.DefaultSecurityAnnotations)
}

func declNode(name string, annotations ...string) syntax.Node {
	return syntax.DeclarationNode(syntax.FunctionDeclaration{
		Name:        name,
		Owner:       "com.example.UserController",
		Annotations: annotations,
		Location:    finding.Location{File: "UserController.java", Line: 2, Column: 13},
	})
}

func TestReportsEachHTTPVerb(t *testing.T) {
	r := defaultRule()
	for _, verb := range config.DefaultEndpointAnnotations {
		t.Run(verb, func(t *testing.T) {
			f, ok := r.Visit(declNode("getUsers", verb))
			require.True(t, ok)
			assert.Equal(t,
				"Endpoint method 'getUsers' must have a security annotation (@Secured, @PermitAll, @RolesAllowed, or @DenyAll).",
				f.Message)
			assert.Equal(t, finding.SeveritySecurity, f.Severity)
			assert.Equal(t, 2, f.Location.Line)
			assert.Equal(t, 13, f.Location.Column)
		})
	}
}

func TestSecurityAnnotationSuppresses(t *testing.T) {
	r := defaultRule()
	for _, sec := range config.DefaultSecurityAnnotations {
		t.Run(sec, func(t *testing.T) {
			_, ok := r.Visit(declNode("getUsers", "Get", sec))
			assert.False(t, ok)
			_, ok = r.Visit(declNode("getUsers", sec, "Get"))
			assert.False(t, ok, "annotation order must not matter")
		})
	}
}

func TestIgnoresNonEndpoints(t *testing.T) {
	r := defaultRule()
	_, ok := r.Visit(declNode("helper", "Override", "Deprecated"))
	assert.False(t, ok)
	_, ok = r.Visit(declNode("helper"))
	assert.False(t, ok)
}

func TestUnknownName(t *testing.T) {
	f, ok := defaultRule().Visit(declNode("", "Post"))
	require.True(t, ok)
	assert.Contains(t, f.Message, "'unknown'")
}

func TestIgnoresCallNodes(t *testing.T) {
	_, ok := defaultRule().Visit(syntax.CallNode(nil, finding.Location{}))
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"Secured"}, "@Secured"},
		{[]string{"Secured", "PermitAll"}, "@Secured or @PermitAll"},
		{[]string{"A", "B", "C"}, "@A, @B, or @C"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.in), fmt.Sprint(tt.in))
	}
}

func TestCustomAnnotationSets(t *testing.T) {
	r := Configure([]string{"Get"}, []string{"Secured"})
	f, ok := r.Visit(declNode("list", "Get"))
	require.True(t, ok)
	assert.Equal(t, "Endpoint method 'list' must have a security annotation (@Secured).", f.Message)
	_, ok = r.Visit(declNode("create", "Post"))
	assert.False(t, ok, "Post is not a marker in this configuration")
}

func TestProviderHonoursActive(t *testing.T) {
	cfg := config.DefaultConfig()
	rs, err := Provider{}.Instance(cfg)
	require.NoError(t, err)
	assert.False(t, rs.Empty())

	cfg.Micronaut.RequireSecuredAnnotation.Active = config.BoolToggle(false)
	rs, err = Provider{}.Instance(cfg)
	require.NoError(t, err)
	assert.True(t, rs.Empty())
}
