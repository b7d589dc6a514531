package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			"versioned delivery url",
			"https://res.cloudinary.com/demo/image/upload/v1712345678/profile_pictures/user_7.jpg",
			"profile_pictures/user_7",
		},
		{
			"unversioned delivery url",
			"https://res.cloudinary.com/demo/image/upload/profile_pictures/user_7.png",
			"profile_pictures/user_7",
		},
		{
			"no folder",
			"https://res.cloudinary.com/demo/image/upload/v99/avatar.webp",
			"avatar",
		},
		{
			"no extension",
			"https://res.cloudinary.com/demo/image/upload/v99/profile_pictures/user_7",
			"profile_pictures/user_7",
		},
		{
			"not a cloudinary url",
			"https://example.com/static/avatar.png",
			"",
		},
		{
			"empty",
			"",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicIDFromURL(tt.url))
		})
	}
}
