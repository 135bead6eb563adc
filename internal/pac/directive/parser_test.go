package directive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleDirective(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Choice
	}{
		{name: "direct", input: "DIRECT", want: Choice{Kind: Direct}},
		{name: "proxy", input: "PROXY h:80", want: Choice{Kind: HTTP, Host: "h", Port: 80}},
		{name: "http", input: "HTTP h:80", want: Choice{Kind: HTTP, Host: "h", Port: 80}},
		{name: "https", input: "HTTPS h:80", want: Choice{Kind: HTTP, Host: "h", Port: 80}},
		{name: "socks", input: "SOCKS h:1080", want: Choice{Kind: SOCKS, Host: "h", Port: 1080}},
		{name: "socks4", input: "SOCKS4 h:1080", want: Choice{Kind: SOCKS, Host: "h", Port: 1080}},
		{name: "socks5", input: "SOCKS5 h:1080", want: Choice{Kind: SOCKS, Host: "h", Port: 1080}},
		{name: "lowercase token", input: "proxy h:3128", want: Choice{Kind: HTTP, Host: "h", Port: 3128}},
		{name: "surrounding whitespace", input: "  PROXY   h:80  ", want: Choice{Kind: HTTP, Host: "h", Port: 80}},
		{name: "port zero", input: "PROXY h:0", want: Choice{Kind: HTTP, Host: "h", Port: 0}},
		{name: "max port", input: "PROXY h:65535", want: Choice{Kind: HTTP, Host: "h", Port: 65535}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, plan, 1)
			assert.Equal(t, tt.want, plan[0])
		})
	}
}

func TestParsePreservesOrder(t *testing.T) {
	plan, err := Parse("PROXY a:80; SOCKS b:1080; DIRECT")
	require.NoError(t, err)

	assert.Equal(t, Plan{
		{Kind: HTTP, Host: "a", Port: 80},
		{Kind: SOCKS, Host: "b", Port: 1080},
		{Kind: Direct},
	}, plan)
}

func TestParseSkipsEmptySegments(t *testing.T) {
	plan, err := Parse("PROXY a:80;; DIRECT;")
	require.NoError(t, err)
	assert.Len(t, plan, 2)
}

func TestParseSplitsOnLastColon(t *testing.T) {
	plan, err := Parse("SOCKS [::1]:1080")
	require.NoError(t, err)
	require.Len(t, plan, 1)

	host, port, ok := plan[0].Endpoint()
	assert.True(t, ok)
	assert.Equal(t, "[::1]", host)
	assert.Equal(t, uint16(1080), port)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{name: "empty", input: "", wantReason: "empty result"},
		{name: "blank", input: "   ", wantReason: "empty result"},
		{name: "only separators", input: " ; ;", wantReason: "no directives"},
		{name: "unknown token", input: "FOO h:80", wantReason: `unrecognized token "FOO"`},
		{name: "missing port", input: "PROXY h", wantReason: `missing port in "h"`},
		{name: "empty port", input: "PROXY h:", wantReason: `empty port in "h:"`},
		{name: "empty host", input: "PROXY :80", wantReason: `empty host in ":80"`},
		{name: "non-numeric port", input: "PROXY h:notanumber", wantReason: `invalid port "notanumber"`},
		{name: "port overflow", input: "PROXY h:65536", wantReason: `invalid port "65536"`},
		{name: "negative port", input: "PROXY h:-1", wantReason: `invalid port "-1"`},
		{name: "too many parts", input: "PROXY h:80 extra", wantReason: "expected 2 parts, got 3"},
		{name: "direct with endpoint", input: "DIRECT h:80", wantReason: `unrecognized token "DIRECT"`},
		{name: "proxy without endpoint", input: "PROXY", wantReason: "missing host:port"},
		{name: "bad directive after good one", input: "DIRECT; BOGUS", wantReason: `unrecognized token "BOGUS"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, plan)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantReason, verr.Reason)
			assert.Equal(t, tt.input, verr.Input)
		})
	}
}

func TestPlanString(t *testing.T) {
	plan, err := Parse("HTTPS a:443;SOCKS5   b:1080 ; direct")
	require.NoError(t, err)
	assert.Equal(t, "PROXY a:443; SOCKS b:1080; DIRECT", plan.String())
}

func TestPlanCloneDoesNotShare(t *testing.T) {
	plan := Plan{{Kind: HTTP, Host: "a", Port: 80}}
	clone := plan.Clone()
	clone[0].Host = "b"

	assert.Equal(t, "a", plan[0].Host)
	assert.True(t, DirectPlan().IsDirect())
	assert.False(t, plan.IsDirect())
}
