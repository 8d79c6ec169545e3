package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifest_Repo(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "github url", url: "https://github.com/acme/widgets", want: "acme/widgets"},
		{name: "trailing slash", url: "https://github.com/acme/widgets/", want: "acme/widgets"},
		{name: "bare slug", url: "acme/widgets", want: "acme/widgets"},
		{name: "host only", url: "https://github.com/", want: ""},
		{name: "empty", url: "", want: ""},
		{name: "single segment", url: "widgets", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Manifest{URL: tt.url}.Repo())
		})
	}
}
